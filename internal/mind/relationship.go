package mind

// levelThresholds maps interaction counts to closeness levels 1..10.
// Below the first threshold the level is 0.
var levelThresholds = []int{5, 30, 100, 300, 600, 1000, 1600, 2400, 3200, 4000}

// LevelForInteractions returns the closeness level for an interaction count.
func LevelForInteractions(n int) int {
	level := 0
	for i, threshold := range levelThresholds {
		if n >= threshold {
			level = i + 1
		}
	}
	return level
}

var levelNames = map[int]string{
	0:  "Desconhecido",
	1:  "Conhecido",
	2:  "Amigável",
	3:  "Colega",
	4:  "Amigo",
	5:  "Amigo Próximo",
	6:  "Confidente",
	7:  "Amigo Íntimo",
	8:  "Melhor Amigo",
	9:  "Inseparável",
	10: "Alma Gêmea",
}

// LevelName returns the display name for a closeness level.
func LevelName(level int) string {
	if name, ok := levelNames[level]; ok {
		return name
	}
	return levelNames[0]
}
