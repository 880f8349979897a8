package models

// Stage is the position of a lead in the sales funnel.
type Stage string

const (
	StageNuevo         Stage = "Nuevo"
	StageCalificado    Stage = "Calificado"
	StageCitado        Stage = "Citado"
	StageEnSeguimiento Stage = "EnSeguimiento"
	StageGanado        Stage = "Ganado"
	StagePerdido       Stage = "Perdido"
	StageNoShow        Stage = "NoShow"
)

// Stages in pipeline order.
var Stages = []Stage{
	StageNuevo,
	StageCalificado,
	StageCitado,
	StageEnSeguimiento,
	StageGanado,
	StagePerdido,
	StageNoShow,
}

func (s Stage) Valid() bool {
	for _, st := range Stages {
		if st == s {
			return true
		}
	}
	return false
}

// IsClosing reports whether the stage closes the deal (won or lost).
func (s Stage) IsClosing() bool {
	return s == StageGanado || s == StagePerdido
}
