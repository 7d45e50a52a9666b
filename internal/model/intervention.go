package model

import "time"

// Intervention represents one maintenance event on factory equipment, as
// stored in the `interventions` table.  Every column except the id and
// created_at is nullable: operators fill forms incrementally and the
// server stores whatever survives coercion.  Pointer fields serialize as
// JSON null when absent, which is what the frontend expects.
type Intervention struct {
	ID                   uint64     `json:"id"`
	PiloteRMEC           *string    `json:"pilote_rmec"`
	Type                 *string    `json:"type"`
	ServiceDemandeur     *string    `json:"service_demandeur"`
	Date                 *time.Time `json:"date"`
	Chaine               *string    `json:"chaine"`
	Equipement           *string    `json:"equipement"`
	Reference            *string    `json:"reference"`
	Symptome             *string    `json:"symptome"`
	InterventionDemandee *string    `json:"intervention_demandee"`
	HeurePanne           *time.Time `json:"heure_panne"`
	HeureDebut           *time.Time `json:"heure_debut"`
	HeureFin             *time.Time `json:"heure_fin"`
	Diagnostic           *string    `json:"diagnostic"`
	Causes               *string    `json:"causes"`
	Travaux              *string    `json:"travaux"`
	PiecesRechange       *string    `json:"pieces_rechange"`
	Quantite             *float64   `json:"quantite"`
	Mecanicien           *string    `json:"mecanicien"`
	FinIntervention      *string    `json:"fin_intervention"`
	NaturePanne          *string    `json:"nature_panne"`
	TpsReponse           *float64   `json:"tps_reponse"`
	DureeIntervention    *float64   `json:"duree_intervention"`
	Disponibilite        *string    `json:"disponibilite"`
	CreatedAt            time.Time  `json:"created_at"`
}

// OwnedBy reports whether the intervention belongs to the given worker
// username.  A row with no mecanicien belongs to nobody.
func (iv *Intervention) OwnedBy(username string) bool {
	return iv.Mecanicien != nil && *iv.Mecanicien == username
}
