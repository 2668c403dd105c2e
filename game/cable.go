package game

// Team 阵营：调查员拆弹，破坏者引爆
type Team int

const (
	TeamInvestigators Team = iota
	TeamSaboteurs
)

func (t Team) String() string {
	switch t {
	case TeamInvestigators:
		return "investigators"
	case TeamSaboteurs:
		return "saboteurs"
	default:
		return "unknown"
	}
}

// Cable 线缆类型
type Cable int

const (
	CableSafe Cable = iota
	CableDefusing
	CableBomb
)

func (c Cable) String() string {
	switch c {
	case CableSafe:
		return "safe"
	case CableDefusing:
		return "defusing"
	case CableBomb:
		return "bomb"
	default:
		return "unknown"
	}
}

// CableNames converts a hand to its wire representation.
func CableNames(cables []Cable) []string {
	names := make([]string, len(cables))
	for i, c := range cables {
		names[i] = c.String()
	}
	return names
}
