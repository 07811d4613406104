package printing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	last *RenderRequest
	err  error
}

func (r *recordingRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	r.last = req
	if r.err != nil {
		return nil, r.err
	}
	return &RenderResult{PDFData: []byte("%PDF-1.4")}, nil
}

func (r *recordingRenderer) Close() error { return nil }

func newEngine(t *testing.T) *TemplateEngine {
	t.Helper()
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	engine, err := NewTemplateEngine(jakarta)
	require.NoError(t, err)
	return engine
}

func TestTemplateEngine_DeliveryNote(t *testing.T) {
	engine := newEngine(t)
	departed := time.Date(2026, 10, 16, 0, 30, 0, 0, time.UTC)

	html, err := engine.Execute(TemplateDeliveryNote, DeliveryNoteData{
		Number:        "DST-20261016-002",
		KitchenName:   "SPPG Cimahi Utara",
		ScheduledDate: time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
		SchoolName:    "SDN 1 Cimahi",
		SchoolNPSN:    "20219876",
		Portions:      1250,
		DriverName:    "budi santoso",
		VehiclePlate:  "D 1234 AB",
		DepartedAt:    &departed,
		Notes:         "<b>jangan ditumpuk</b>",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "SPPG CIMAHI UTARA")
	assert.Contains(t, html, "16 Oktober 2026")
	assert.Contains(t, html, "16 Oktober 2026 07:30")
	assert.Contains(t, html, "1.250")
	assert.Contains(t, html, "Budi Santoso")
	assert.Contains(t, html, "Makan Bergizi")
	assert.Contains(t, html, "&lt;b&gt;jangan ditumpuk&lt;/b&gt;")
	assert.NotContains(t, html, "<b>jangan")
}

func TestTemplateEngine_MenuCard(t *testing.T) {
	engine := newEngine(t)

	html, err := engine.Execute(TemplateMenuCard, MenuCardData{
		Code:             "MN-001",
		Name:             "nasi ayam sayur",
		MealType:         "lunch",
		Level:            "SD",
		ServingSizeGrams: 350,
		CostPerServing:   decimal.NewFromInt(12500),
		Ingredients: []MenuCardIngredient{
			{Name: "Beras", Quantity: decimal.RequireFromString("0.15"), Unit: "kg"},
			{Name: "Telur", Quantity: decimal.NewFromInt(1), Unit: "pcs"},
		},
		Nutrients: []MenuCardNutrient{
			{Label: "Energi", Unit: "kkal", Amount: decimal.RequireFromString("437.5"), Target: decimal.NewFromInt(495), HasTarget: true},
			{Label: "Protein", Unit: "g", Amount: decimal.RequireFromString("13.5"), Target: decimal.NewFromInt(12), HasTarget: true, Met: true},
			{Label: "Serat", Unit: "g", Amount: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Nasi Ayam Sayur")
	assert.Contains(t, html, "Jenjang SD")
	assert.Contains(t, html, "0,15")
	assert.Contains(t, html, "437,5 kkal")
	assert.Contains(t, html, "Kurang")
	assert.Contains(t, html, "Terpenuhi")
	assert.Contains(t, html, "Rp 12.500")
}

func TestTemplateEngine_UnknownTemplate(t *testing.T) {
	_, err := newEngine(t).Execute("invoice.html", nil)
	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, ErrCodeTemplate, renderErr.Code)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "1.234.567,89", formatDecimal(decimal.RequireFromString("1234567.885"), 2))
	assert.Equal(t, "-1.000", formatDecimal(decimal.NewFromInt(-1000), 0))
	assert.Equal(t, "999", formatInt(999))
	assert.Equal(t, "-12.000", formatInt(-12000))
	assert.Equal(t, "Sdn 1 Cimahi", titleCase("SDN 1 CIMAHI"))
}

func TestDocumentRenderer(t *testing.T) {
	fake := &recordingRenderer{}
	docs := NewDocumentRenderer(newEngine(t), fake, nil)

	doc, err := docs.RenderDeliveryNote(context.Background(), DeliveryNoteData{Number: "DST-1", Portions: 10, ScheduledDate: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, "surat-jalan-DST-1.pdf", doc.FileName)
	assert.Equal(t, PaperA5, fake.last.PaperSize)
	assert.True(t, fake.last.Landscape)
	assert.Contains(t, fake.last.HTML, "SURAT JALAN")

	doc, err = docs.RenderMenuCard(context.Background(), MenuCardData{Code: "MN-1", Name: "Menu"})
	require.NoError(t, err)
	assert.Equal(t, "menu-MN-1.pdf", doc.FileName)
	assert.Equal(t, PaperA4, fake.last.PaperSize)

	fake.err = NewRenderError(ErrCodeRenderTimeout, "timeout", nil)
	_, err = docs.RenderMenuCard(context.Background(), MenuCardData{Code: "MN-1"})
	assert.Error(t, err)
}
