package entity

// ProcessRoute es la ruta de proceso de una orden: la lista ordenada de
// etapas válidas. La suministra el registro de rutas externo y el núcleo la
// trata como solo lectura.
type ProcessRoute struct {
	OrderID string
	Stages  []string // en orden canónico, ej. PRINTING → LAMINATION → ...
}

// StagePosition devuelve la posición de la etapa en la ruta, o -1 si no pertenece.
func (r *ProcessRoute) StagePosition(stageID string) int {
	for i, s := range r.Stages {
		if s == stageID {
			return i
		}
	}
	return -1
}

// Contains indica si la etapa pertenece a la ruta.
func (r *ProcessRoute) Contains(stageID string) bool {
	return r.StagePosition(stageID) >= 0
}

// PreviousStage devuelve la etapa inmediatamente anterior en la ruta.
// Devuelve "" si la etapa es la primera o no pertenece a la ruta.
func (r *ProcessRoute) PreviousStage(stageID string) string {
	pos := r.StagePosition(stageID)
	if pos <= 0 {
		return ""
	}
	return r.Stages[pos-1]
}
