package solve

// Manager holds an ordered list of solves and (re-)applies them in
// sequence, each against the current state left by the previous one,
// grounded on original_source/optiland/solves/solve_manager.py. Callers
// re-run Apply after every paraxial update (Optic.UpdateParaxial in
// package optic) so solves stay satisfied as the prescription changes.
type Manager struct {
	solves []Solve
}

// NewManager returns an empty solve manager.
func NewManager() *Manager { return &Manager{} }

// Add appends a solve and applies it immediately against the current
// optic state (SolveManager.add applies eagerly too).
func (m *Manager) Add(optic Optic, s Solve) error {
	if err := s.Apply(optic); err != nil {
		return err
	}
	m.solves = append(m.solves, s)
	return nil
}

// Apply re-applies every solve in the order they were added.
func (m *Manager) Apply(optic Optic) error {
	for _, s := range m.solves {
		if err := s.Apply(optic); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes every registered solve.
func (m *Manager) Clear() { m.solves = nil }

// Len reports the number of registered solves.
func (m *Manager) Len() int { return len(m.solves) }

// ToMap persists the ordered solve list.
func (m *Manager) ToMap() map[string]interface{} {
	list := make([]interface{}, len(m.solves))
	for i, s := range m.solves {
		list[i] = s.ToMap()
	}
	return map[string]interface{}{"solves": list}
}

// ManagerFromMap restores a Manager's solve list WITHOUT re-applying it
// (the caller decides whether a reload should re-run solves against a
// freshly-constructed optic).
func ManagerFromMap(m map[string]interface{}) (*Manager, error) {
	mgr := NewManager()
	raw, _ := m["solves"].([]interface{})
	for _, e := range raw {
		sm, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		s, err := FromMap(sm)
		if err != nil {
			return nil, err
		}
		mgr.solves = append(mgr.solves, s)
	}
	return mgr, nil
}
