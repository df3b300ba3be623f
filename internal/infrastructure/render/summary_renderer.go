// Package render рисует картинку-резюме: счетчики пакетов и две цветные
// статусные полосы (мониторинг и ресурсы). Точный пиксельный layout не
// является контрактом; контракт в том, что картинка детерминированно
// отражает вычисленные уровни тревоги.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/lightdata/push-dispatch/internal/application/port"
)

const (
	canvasWidth  = 900
	canvasHeight = 420
)

var (
	backgroundColor = mustHex("#0b1220")
	panelColor      = mustHex("#111b2e")
	titleColor      = color.White
	mutedColor      = mustHex("#cbd5e1")
)

// SummaryRenderer рисует PNG-резюме
type SummaryRenderer struct {
	face font.Face
}

// NewSummaryRenderer создает рендерер со встроенным шрифтом
func NewSummaryRenderer() *SummaryRenderer {
	return &SummaryRenderer{face: basicfont.Face7x13}
}

// RenderSummary возвращает PNG-байты картинки-резюме
func (r *SummaryRenderer) RenderSummary(_ context.Context, input port.RenderInput) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))

	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(40, 40, canvasWidth-40, canvasHeight-40),
		image.NewUniform(panelColor), image.Point{}, draw.Src)

	r.text(img, 80, 90, titleColor, "Resumen Global")
	r.text(img, 80, 125, mutedColor, fmt.Sprintf("Fecha: %s (%s)", input.Date, input.Month))
	r.text(img, 80, 170, titleColor, fmt.Sprintf("Paquetes del dia: %s", input.DailyCount))
	r.text(img, 80, 195, titleColor, fmt.Sprintf("Paquetes del mes: %s", input.MonthlyCount))

	// Полоса мониторинга
	monColors := input.Monitoring.Severity().Colors()
	monBG, err := parseHex(monColors.Background)
	if err != nil {
		return nil, fmt.Errorf("monitoring color: %w", err)
	}
	monFG, err := parseHex(monColors.Foreground)
	if err != nil {
		return nil, fmt.Errorf("monitoring color: %w", err)
	}
	draw.Draw(img, image.Rect(60, 230, canvasWidth-60, 290), image.NewUniform(monBG), image.Point{}, draw.Src)
	r.text(img, 80, 265, monFG, monitoringLabel(input))

	// Полоса ресурсов
	metColors := input.Metrics.Level.Colors()
	metBG, err := parseHex(metColors.Background)
	if err != nil {
		return nil, fmt.Errorf("metrics color: %w", err)
	}
	metFG, err := parseHex(metColors.Foreground)
	if err != nil {
		return nil, fmt.Errorf("metrics color: %w", err)
	}
	draw.Draw(img, image.Rect(60, 310, canvasWidth-60, 370), image.NewUniform(metBG), image.Point{}, draw.Src)
	r.text(img, 80, 345, metFG,
		fmt.Sprintf("Recursos: %s (%d sobre umbral)", input.Metrics.Level, input.Metrics.OverThresholdCount))

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	return buf.Bytes(), nil
}

func monitoringLabel(input port.RenderInput) string {
	if len(input.Monitoring.Affected) == 0 {
		return fmt.Sprintf("Microservicios: %s", input.Monitoring.Severity())
	}

	parts := make([]string, 0, len(input.Monitoring.Affected))
	for _, streak := range input.Monitoring.Affected {
		parts = append(parts, fmt.Sprintf("%s x%d", streak.Service, streak.Count))
	}
	return fmt.Sprintf("Microservicios: %s - %s", input.Monitoring.Severity(), strings.Join(parts, ", "))
}

func (r *SummaryRenderer) text(img draw.Image, x, y int, c color.Color, s string) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(s)
}

func parseHex(s string) (color.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.TrimPrefix(s, "#"), "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func mustHex(s string) color.RGBA {
	c, err := parseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
