package masterdata

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/masterdata/internal/core"
)

// Terminal is a container terminal inside a port.
type Terminal struct {
	ID           uuid.UUID `json:"id"`
	TerminalName string    `json:"terminalName"`
	TerminalCode string    `json:"terminalCode"`
	PortID       uuid.UUID `json:"portId"`
	core.Audit
}

func (t *Terminal) EntityID() uuid.UUID      { return t.ID }
func (t *Terminal) SetEntityID(id uuid.UUID) { t.ID = id }
func (t *Terminal) NaturalKey() string       { return t.TerminalCode }
func (t *Terminal) DisplayName() string      { return t.TerminalName }

// TerminalInput carries the editable fields of a terminal.
type TerminalInput struct {
	TerminalName string    `json:"terminalName"`
	TerminalCode string    `json:"terminalCode"`
	PortID       uuid.UUID `json:"portId"`
}

// TerminalListItem is a row of the terminal list with its port resolved.
type TerminalListItem struct {
	ID           uuid.UUID `json:"id"`
	TerminalName string    `json:"terminalName"`
	TerminalCode string    `json:"terminalCode"`
	PortID       uuid.UUID `json:"portId"`
	PortCode     string    `json:"portCode"`
	PortName     string    `json:"portName"`
}

// TerminalColumns is the import template.
var TerminalColumns = []string{"Terminal Name", "Terminal Code", "Port Code"}

var terminalInfo = core.EntityInfo{Key: "terminals", Group: GroupGeography, Label: "Terminals", Columns: TerminalColumns}

// TerminalService manages terminals.
type TerminalService struct {
	base[*Terminal]
	ports core.Repository[*Port]
}

// NewTerminalService returns a service over repo. Port codes in import rows
// resolve against ports.
func NewTerminalService(repo core.Repository[*Terminal], ports core.Repository[*Port], opts Options) *TerminalService {
	return &TerminalService{
		base: newBase(terminalInfo.Key, "terminal", repo, opts, (*Terminal).NaturalKey, decodeTerminal,
			core.Source(KindPort, ports),
		),
		ports: ports,
	}
}

// GetAll lists active terminals by name with the port joined.
func (s *TerminalService) GetAll(ctx context.Context) ([]TerminalListItem, error) {
	terminals, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	ports, err := s.ports.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	portByID := core.IndexByID(ports)

	items := make([]TerminalListItem, len(terminals))
	for i, t := range terminals {
		item := TerminalListItem{
			ID:           t.ID,
			TerminalName: t.TerminalName,
			TerminalCode: t.TerminalCode,
			PortID:       t.PortID,
		}
		if p, ok := portByID[t.PortID]; ok {
			item.PortCode, item.PortName = p.PortCode, p.FullName
		}
		items[i] = item
	}
	return items, nil
}

// Create adds a terminal.
func (s *TerminalService) Create(ctx context.Context, in TerminalInput, actor uuid.UUID) (uuid.UUID, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return uuid.Nil, err
	}
	return s.create(ctx, &Terminal{
		TerminalName: in.TerminalName,
		TerminalCode: in.TerminalCode,
		PortID:       in.PortID,
	}, actor)
}

// Update replaces the editable fields of a terminal.
func (s *TerminalService) Update(ctx context.Context, id uuid.UUID, in TerminalInput, actor uuid.UUID) error {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return err
	}
	return s.update(ctx, id, actor, func(t *Terminal) {
		t.TerminalName = in.TerminalName
		t.TerminalCode = in.TerminalCode
		t.PortID = in.PortID
	})
}

// Export returns active terminals in template column order.
func (s *TerminalService) Export(ctx context.Context) ([][]string, error) {
	items, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(items))
	for i, t := range items {
		out[i] = []string{t.TerminalName, t.TerminalCode, t.PortCode}
	}
	return out, nil
}

func (in TerminalInput) normalized() TerminalInput {
	in.TerminalName = strings.TrimSpace(in.TerminalName)
	in.TerminalCode = strings.TrimSpace(in.TerminalCode)
	return in
}

func (in TerminalInput) validate() error {
	var v core.Validator
	v.Required("Terminal Name", in.TerminalName)
	v.Required("Terminal Code", in.TerminalCode)
	v.RequiredID("Port", in.PortID)
	return v.Err()
}

func decodeTerminal(row core.Row, refs *core.Refs) (core.Candidate[*Terminal], error) {
	name, code := row.Text(0), row.Text(1)
	if code == "" {
		return core.Candidate[*Terminal]{}, nil
	}

	portID, err := resolveRequired(refs, KindPort, "Port Code", row.Text(2))
	if err != nil {
		return core.Candidate[*Terminal]{}, err
	}

	return core.Candidate[*Terminal]{
		Identity: code,
		Create: func() *Terminal {
			return &Terminal{TerminalName: name, TerminalCode: code, PortID: portID}
		},
		Merge: func(t *Terminal) {
			core.MergeText(&t.TerminalName, name)
			core.MergeText(&t.TerminalCode, code)
			t.PortID = portID
		},
	}, nil
}
