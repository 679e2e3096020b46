package model

// Topology liefert die Fakten der Prozess-Topologie, die der Aufbau braucht.
// Die eigentliche Kommunikation liegt ausserhalb dieses Pakets.
type Topology interface {
	PipelineRank() int
	PipelineSize() int
	IsPipelineFirstStage() bool
	IsPipelineLastStage() bool
}

// StaticTopology ist eine feste Topologie (z.B. aus CLI-Flags)
type StaticTopology struct {
	Rank int
	Size int
}

// SingleStage gibt die Topologie eines einzelnen Prozesses zurueck
func SingleStage() StaticTopology {
	return StaticTopology{Rank: 0, Size: 1}
}

func (t StaticTopology) PipelineRank() int { return t.Rank }

func (t StaticTopology) PipelineSize() int { return max(t.Size, 1) }

func (t StaticTopology) IsPipelineFirstStage() bool { return t.Rank == 0 }

func (t StaticTopology) IsPipelineLastStage() bool { return t.Rank == t.PipelineSize()-1 }
