package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Salaheddine-dev01/factory/internal/model"
)

// ExportStore is the read surface the CSV export needs.
type ExportStore interface {
	ListByCreation(ctx context.Context) ([]model.Intervention, error)
}

// ExportHandler produces the admin-only CSV dump of the interventions
// table.  The admin gate itself lives in the router (RequireRole).
type ExportHandler struct {
	Store ExportStore
}

func NewExportHandler(store ExportStore) *ExportHandler { return &ExportHandler{Store: store} }

// csvHeaders is the fixed 25-column header order the export contract
// promises.  Changing it breaks the spreadsheets people built on top.
var csvHeaders = []string{
	"ID", "Pilote RMEC", "Type", "Service Demandeur", "Date", "Chaine", "Equipement",
	"Reference", "Symptome", "Intervention Demandee", "Heure Panne", "Heure Debut",
	"Heure Fin", "Diagnostic", "Causes", "Travaux", "Pieces Rechange", "Quantite",
	"Mecanicien", "Fin Intervention", "Nature Panne", "Temps Reponse", "Duree Intervention",
	"Disponibilite", "Created At",
}

// Excel handles GET /api/export/excel.  Despite the name it returns CSV
// (which Excel opens fine): one header line plus one line per
// intervention, newest creation first, every value quoted with inner
// quotes doubled.  Zero rows yield exactly the header line.
func (h *ExportHandler) Excel(c echo.Context) error {
	rows, err := h.Store.ListByCreation(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Export failed", "details": err.Error()})
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(csvHeaders, ","))
	sb.WriteByte('\n')
	for i := range rows {
		sb.WriteString(csvRow(&rows[i]))
		sb.WriteByte('\n')
	}

	filename := "interventions_" + time.Now().Format("2006-01-02") + ".csv"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(sb.String()))
}

func csvRow(iv *model.Intervention) string {
	values := []string{
		strconv.FormatUint(iv.ID, 10),
		textValue(iv.PiloteRMEC),
		textValue(iv.Type),
		textValue(iv.ServiceDemandeur),
		dateValue(iv.Date),
		textValue(iv.Chaine),
		textValue(iv.Equipement),
		textValue(iv.Reference),
		textValue(iv.Symptome),
		textValue(iv.InterventionDemandee),
		timeValue(iv.HeurePanne),
		timeValue(iv.HeureDebut),
		timeValue(iv.HeureFin),
		textValue(iv.Diagnostic),
		textValue(iv.Causes),
		textValue(iv.Travaux),
		textValue(iv.PiecesRechange),
		numberValue(iv.Quantite),
		textValue(iv.Mecanicien),
		textValue(iv.FinIntervention),
		textValue(iv.NaturePanne),
		numberValue(iv.TpsReponse),
		numberValue(iv.DureeIntervention),
		textValue(iv.Disponibilite),
		iv.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for i, v := range values {
		values[i] = quote(v)
	}
	return strings.Join(values, ",")
}

// quote wraps every value in double quotes, doubling inner quotes.
func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func textValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func dateValue(p *time.Time) string {
	if p == nil {
		return ""
	}
	return p.Format("2006-01-02")
}

func timeValue(p *time.Time) string {
	if p == nil {
		return ""
	}
	return p.Format("2006-01-02 15:04:05")
}

func numberValue(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
