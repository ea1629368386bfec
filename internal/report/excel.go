// Package report renders conversations into a styled XLSX report.
package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/nurlansk/conversation-reports/internal/model"
	"github.com/nurlansk/conversation-reports/internal/timefmt"
)

const sheetName = "Диалоги"

// langNames maps stored language codes to display labels. Unmapped codes
// pass through verbatim.
var langNames = map[string]string{
	"ru": "Русский",
	"kk": "Казахский",
}

var headers = []string{"Язык", "Кто", "Сообщение", "Дата и время"}

const (
	maxColWidth   = 120
	minRowHeight  = 20.0
	lineHeight    = 15.0
	wrapLineRunes = 80
)

type Exporter struct {
	// perMessageLanguage labels each row with its own message's language.
	// The legacy behavior, kept as the default, labels every row of a
	// conversation with the language of its last message.
	perMessageLanguage bool
}

type Option func(*Exporter)

// PerMessageLanguage labels each report row with that row's message
// language instead of the conversation's last message language.
func PerMessageLanguage() Option {
	return func(e *Exporter) { e.perMessageLanguage = true }
}

func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes the conversations to an XLSX file at path, overwriting any
// existing file. Layout: a title row, then per conversation a bold chat
// header row, a blank row, a bold column header row, one row per message,
// and two blank separator rows.
func (e *Exporter) Export(convs []model.Conversation, period, path string) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	wrapped, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}

	w := &sheetWriter{f: f, widths: make([]int, len(headers))}

	if err := w.setRow(1, bold, "Отзывы за период "+period); err != nil {
		return err
	}

	row := 1
	for i, conv := range convs {
		row++
		chatRow := row
		if err := w.setRow(chatRow, bold,
			fmt.Sprintf("Чат №%d", i+1),
			fmt.Sprintf("Клиент: %s", conv.ClientPhone),
		); err != nil {
			return err
		}

		row++ // blank

		row++
		if err := w.setRow(row, bold, headers...); err != nil {
			return err
		}

		convLang := langLabel(conv.Messages[len(conv.Messages)-1].Language)

		for _, m := range conv.Messages {
			lang := convLang
			if e.perMessageLanguage {
				lang = langLabel(m.Language)
			}

			who := "Бот"
			if m.FromPhone == conv.ClientPhone {
				who = "Клиент"
			}

			when, err := timefmt.Normalize(m.DateTime)
			if err != nil {
				return fmt.Errorf("message %d: %w", m.ID, err)
			}

			row++
			if err := w.setRow(row, wrapped, lang, who, m.Text, when); err != nil {
				return err
			}
			if err := f.SetRowHeight(sheetName, row, heightFor(m.Text)); err != nil {
				return err
			}
		}

		row += 2 // separator
	}

	if err := w.applyWidths(); err != nil {
		return err
	}

	return f.SaveAs(path)
}

// sheetWriter writes rows and tracks the longest value seen per column so
// widths can be applied once at the end.
type sheetWriter struct {
	f      *excelize.File
	widths []int
}

func (w *sheetWriter) setRow(row, style int, values ...string) error {
	for col, val := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := w.f.SetCellValue(sheetName, cell, val); err != nil {
			return err
		}
		if err := w.f.SetCellStyle(sheetName, cell, cell, style); err != nil {
			return err
		}
		if n := utf8.RuneCountInString(val); col < len(w.widths) && n > w.widths[col] {
			w.widths[col] = n
		}
	}
	return nil
}

func (w *sheetWriter) applyWidths() error {
	for col, longest := range w.widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		width := longest + 2
		if width > maxColWidth {
			width = maxColWidth
		}
		if err := w.f.SetColWidth(sheetName, name, name, float64(width)); err != nil {
			return err
		}
	}
	return nil
}

// heightFor sizes a message row to fit both explicit line breaks and long
// lines soft-wrapped at roughly 80 characters.
func heightFor(text string) float64 {
	lines := strings.Count(text, "\n") + 1

	wrap := (utf8.RuneCountInString(text) + wrapLineRunes - 1) / wrapLineRunes
	if wrap < 1 {
		wrap = 1
	}
	if wrap > lines {
		lines = wrap
	}

	h := lineHeight * float64(lines)
	if h < minRowHeight {
		return minRowHeight
	}
	return h
}

func langLabel(code string) string {
	if name, ok := langNames[code]; ok {
		return name
	}
	return code
}
