package chat

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/protonix-ai/protonix/internal/dispatch"
	"github.com/protonix-ai/protonix/internal/history"
	"github.com/protonix-ai/protonix/internal/relay"
	"github.com/protonix-ai/protonix/internal/theme"
)

// tableWidth is the total width shared by comparison columns
const tableWidth = 120

// Renderer prints transcript entries to the terminal. It serializes writes
// because replies settle on different goroutines.
type Renderer struct {
	mu      sync.Mutex
	theme   theme.Theme
	catalog *dispatch.Catalog
	out     io.Writer
}

// NewRenderer creates a renderer writing tables to out and styled lines through t
func NewRenderer(t theme.Theme, catalog *dispatch.Catalog, out io.Writer) *Renderer {
	return &Renderer{
		theme:   t,
		catalog: catalog,
		out:     out,
	}
}

// Entry prints one settled bot entry in linear mode
func (r *Renderer) Entry(e dispatch.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target := r.target(e.TargetID)
	r.theme.Accent(target.Accent).Print(target.Label() + " > ")
	if e.IsError {
		r.theme.Error().Println(e.Text)
		return
	}
	r.theme.Info().Println(Purify(e.Text))
}

// Comparison prints the entries of one turn side by side, one column per target.
// When columns are given the table keeps one column for each of them, in that
// order, leaving the cells of targets not asked this turn empty.
func (r *Renderer) Comparison(entries []dispatch.Entry, columns ...dispatch.Target) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(entries) == 0 {
		return
	}

	if len(columns) == 0 {
		for _, e := range entries {
			columns = append(columns, r.target(e.TargetID))
		}
	}

	byTarget := make(map[string]dispatch.Entry, len(entries))
	for _, e := range entries {
		byTarget[strings.ToLower(e.TargetID)] = e
	}

	header := make([]string, 0, len(columns))
	row := make([]string, 0, len(columns))
	for _, col := range columns {
		header = append(header, col.Label())
		e, ok := byTarget[strings.ToLower(col.ID)]
		switch {
		case !ok:
			row = append(row, "")
		case e.IsLoading:
			row = append(row, "...")
		case e.IsError:
			row = append(row, "⚠ "+e.Text)
		default:
			row = append(row, Purify(e.Text))
		}
	}

	table := r.newTable(header)
	table.SetColWidth(max(20, tableWidth/len(columns)))
	table.SetRowLine(true)
	table.Append(row)
	table.Render()
}

// Targets prints the target catalog, marking the selected and default target
func (r *Renderer) Targets(infos []relay.TargetInfo, selected string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	table := r.newTable([]string{"ID", "Name", "Model", "Status"})
	for _, info := range infos {
		status := "ready"
		if !info.Enabled {
			status = "no api key"
		}
		if info.Default {
			status += ", default"
		}
		if info.ID == selected {
			status += ", selected"
		}
		table.Append([]string{info.ID, info.Name, info.Model, status})
	}
	table.Render()
}

// Conversations prints stored conversations, newest first as the store returns them
func (r *Renderer) Conversations(convs []history.Conversation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(convs) == 0 {
		r.theme.Subtle().Println("No saved conversations yet.")
		return
	}

	table := r.newTable([]string{"ID", "Title", "Started", "Messages"})
	for _, c := range convs {
		table.Append([]string{c.ID, c.Title, c.CreatedAt.Local().Format(time.DateTime), fmt.Sprint(c.Entries)})
	}
	table.Render()
}

// Transcript replays a stored conversation in linear form
func (r *Renderer) Transcript(entries []history.Entry) {
	for _, e := range entries {
		if e.Sender == string(dispatch.SenderUser) {
			r.mu.Lock()
			r.theme.Primary().Println("You > " + e.Text)
			r.mu.Unlock()
			continue
		}
		r.Entry(dispatch.Entry{
			Text:          e.Text,
			Sender:        dispatch.SenderBot,
			TargetID:      e.TargetID,
			CorrelationID: e.CorrelationID,
			IsError:       e.IsError,
			Timestamp:     e.CreatedAt,
		})
	}
}

func (r *Renderer) newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(r.out)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(true)
	table.SetReflowDuringAutoWrap(false)

	if r.theme.IsEnabled() {
		colors := make([]tablewriter.Colors, len(header))
		for i := range colors {
			colors[i] = tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor}
		}
		table.SetHeaderColor(colors...)
	}
	return table
}

func (r *Renderer) target(id string) dispatch.Target {
	if r.catalog != nil {
		if t, ok := r.catalog.Lookup(id); ok {
			return t
		}
	}
	return dispatch.Target{ID: id, Name: id}
}
