package printing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DeliveryNoteData is the content of a surat jalan
type DeliveryNoteData struct {
	Number         string
	KitchenName    string
	KitchenAddress string
	ScheduledDate  time.Time
	SchoolName     string
	SchoolNPSN     string
	SchoolAddress  string
	MenuName       string
	Portions       int
	DriverName     string
	VehiclePlate   string
	RecipientName  string
	Notes          string
	DepartedAt     *time.Time
	DeliveredAt    *time.Time
}

// MenuCardIngredient is one recipe line on a menu card
type MenuCardIngredient struct {
	Name     string
	Quantity decimal.Decimal
	Unit     string
}

// MenuCardNutrient is one nutrient row on a menu card. Target is only
// printed when HasTarget is set.
type MenuCardNutrient struct {
	Label     string
	Unit      string
	Amount    decimal.Decimal
	Target    decimal.Decimal
	HasTarget bool
	Met       bool
}

// MenuCardData is the content of a printable menu card
type MenuCardData struct {
	Code             string
	Name             string
	Description      string
	MealType         string
	Level            string
	ServingSizeGrams int
	CostPerServing   decimal.Decimal
	Ingredients      []MenuCardIngredient
	Nutrients        []MenuCardNutrient
}

// Document is a rendered PDF with its suggested file name
type Document struct {
	FileName string
	PDF      []byte
}

// DocumentRenderer fills document templates and prints them
type DocumentRenderer struct {
	engine   *TemplateEngine
	renderer PDFRenderer
	logger   *zap.Logger
}

// NewDocumentRenderer creates a DocumentRenderer
func NewDocumentRenderer(engine *TemplateEngine, renderer PDFRenderer, logger *zap.Logger) *DocumentRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentRenderer{engine: engine, renderer: renderer, logger: logger}
}

// RenderDeliveryNote prints a surat jalan on A5 landscape
func (r *DocumentRenderer) RenderDeliveryNote(ctx context.Context, data DeliveryNoteData) (*Document, error) {
	return r.render(ctx, TemplateDeliveryNote, data, &RenderRequest{
		Title:     "Surat Jalan " + data.Number,
		PaperSize: PaperA5,
		Landscape: true,
		Margins:   DefaultMargins(),
	}, "surat-jalan-"+data.Number+".pdf")
}

// RenderMenuCard prints a menu card on A4
func (r *DocumentRenderer) RenderMenuCard(ctx context.Context, data MenuCardData) (*Document, error) {
	return r.render(ctx, TemplateMenuCard, data, &RenderRequest{
		Title:     "Kartu Menu " + data.Code,
		PaperSize: PaperA4,
		Margins:   DefaultMargins(),
	}, "menu-"+data.Code+".pdf")
}

func (r *DocumentRenderer) render(ctx context.Context, name string, data any, req *RenderRequest, fileName string) (*Document, error) {
	html, err := r.engine.Execute(name, data)
	if err != nil {
		return nil, err
	}
	req.HTML = html
	result, err := r.renderer.Render(ctx, req)
	if err != nil {
		r.logger.Warn("document rendering failed", zap.String("template", name), zap.Error(err))
		return nil, err
	}
	return &Document{FileName: fileName, PDF: result.PDFData}, nil
}
