package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Salaheddine-dev01/factory/internal/coerce"
	"github.com/Salaheddine-dev01/factory/internal/model"
)

// selectColumns is the full column list in table order; used instead of
// SELECT * so Scan destinations stay aligned with the query.
const selectColumns = "id, pilote_rmec, type, service_demandeur, date, chaine, equipement, " +
	"reference, symptome, intervention_demandee, heure_panne, heure_debut, heure_fin, " +
	"diagnostic, causes, travaux, pieces_rechange, quantite, mecanicien, " +
	"fin_intervention, nature_panne, tps_reponse, duree_intervention, disponibilite, created_at"

// InterventionRepo implements CRUD over the `interventions` table.  All
// statements use bound parameters only; column names in generated SQL
// come exclusively from the coerce package's fixed field list, never
// from client input.
type InterventionRepo struct{ DB *sql.DB }

func NewInterventionRepo(db *sql.DB) *InterventionRepo { return &InterventionRepo{DB: db} }

// List returns interventions newest-first by id.  When mecanicien is
// non-empty only that worker's rows are returned; the empty string means
// no constraint (admin view).
func (r *InterventionRepo) List(ctx context.Context, mecanicien string) ([]model.Intervention, error) {
	query := "SELECT " + selectColumns + " FROM interventions"
	var args []any
	if mecanicien != "" {
		query += " WHERE mecanicien = ?"
		args = append(args, mecanicien)
	}
	query += " ORDER BY id DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Intervention, 0)
	for rows.Next() {
		iv, err := scanIntervention(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, iv)
	}
	return items, rows.Err()
}

// ListByCreation returns every intervention ordered by creation time
// descending.  Used by the CSV export.
func (r *InterventionRepo) ListByCreation(ctx context.Context) ([]model.Intervention, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+selectColumns+" FROM interventions ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Intervention, 0)
	for rows.Next() {
		iv, err := scanIntervention(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, iv)
	}
	return items, rows.Err()
}

// GetByID fetches one intervention.  ErrNotFound when the id is absent.
func (r *InterventionRepo) GetByID(ctx context.Context, id uint64) (model.Intervention, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+selectColumns+" FROM interventions WHERE id = ?", id)
	iv, err := scanIntervention(row)
	if err == sql.ErrNoRows {
		return model.Intervention{}, ErrNotFound
	}
	return iv, err
}

// Insert coerces every writable field of body per its kind and inserts a
// single row covering all of them; fields absent from body store NULL.
// Returns the newly assigned id.
func (r *InterventionRepo) Insert(ctx context.Context, body map[string]any) (uint64, error) {
	names := coerce.FieldNames()
	vals := make([]any, len(names))
	marks := make([]string, len(names))
	for i, name := range names {
		kind, _ := coerce.KindOf(name)
		vals[i] = coerce.Value(kind, body[name])
		marks[i] = "?"
	}
	query := "INSERT INTO interventions (" + strings.Join(names, ", ") +
		") VALUES (" + strings.Join(marks, ", ") + ")"
	res, err := r.DB.ExecContext(ctx, query, vals...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update touches exactly the writable fields present in body, coerced per
// kind.  Fields not present are left untouched.  ErrNoFieldsToUpdate when
// nothing recognized was supplied.
func (r *InterventionRepo) Update(ctx context.Context, id uint64, body map[string]any) error {
	var sets []string
	var vals []any
	for _, name := range coerce.FieldNames() {
		raw, present := body[name]
		if !present {
			continue
		}
		kind, _ := coerce.KindOf(name)
		sets = append(sets, name+" = ?")
		vals = append(vals, coerce.Value(kind, raw))
	}
	if len(sets) == 0 {
		return ErrNoFieldsToUpdate
	}
	vals = append(vals, id)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE interventions SET "+strings.Join(sets, ", ")+" WHERE id = ?", vals...)
	return err
}

// Delete removes a row after an existence check, so a missing id yields a
// clean ErrNotFound instead of relying on affected-row counts.
func (r *InterventionRepo) Delete(ctx context.Context, id uint64) error {
	var found uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM interventions WHERE id = ?", id).Scan(&found)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, "DELETE FROM interventions WHERE id = ?", id)
	return err
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface{ Scan(dest ...any) error }

func scanIntervention(s scanner) (model.Intervention, error) {
	var iv model.Intervention
	err := s.Scan(
		&iv.ID, &iv.PiloteRMEC, &iv.Type, &iv.ServiceDemandeur, &iv.Date,
		&iv.Chaine, &iv.Equipement, &iv.Reference, &iv.Symptome,
		&iv.InterventionDemandee, &iv.HeurePanne, &iv.HeureDebut, &iv.HeureFin,
		&iv.Diagnostic, &iv.Causes, &iv.Travaux, &iv.PiecesRechange,
		&iv.Quantite, &iv.Mecanicien, &iv.FinIntervention, &iv.NaturePanne,
		&iv.TpsReponse, &iv.DureeIntervention, &iv.Disponibilite, &iv.CreatedAt,
	)
	return iv, err
}
