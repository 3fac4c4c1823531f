package allocation

import (
	"fmt"

	"github.com/ahmedNJ467/koormatics-dispatch/core/availability"
	"github.com/ahmedNJ467/koormatics-dispatch/core/model"
	"github.com/ahmedNJ467/koormatics-dispatch/core/schedule"
)

// State tracks a session through its lifecycle.
type State int

const (
	StateUninitialized State = iota
	StatePopulated
	StateEditing
	StateValidating
	StateCommitted
	StateRejected
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePopulated:
		return "populated"
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateCommitted:
		return "committed"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// TripChanges is the atomic mutation a committed session applies to its
// trip: the legacy primary fields plus the full slot lists.
type TripChanges struct {
	DriverID           string
	VehicleID          string
	AssignedVehicleIDs []string
	EscortVehicleIDs   []string
}

// AssignmentDraft is one pending driver-to-trip link to append to the
// assignment log after a successful commit.
type AssignmentDraft struct {
	TripID   string
	DriverID string
}

// Session is the explicit state of one trip-editing dialog: the slot
// plan plus the operator's current selections. All candidate pools are
// re-derived on every call; nothing is cached across edits, because
// selecting a resource in one slot changes the pool of every sibling.
type Session struct {
	trip model.Trip
	plan SlotPlan

	carrierDrivers  []string
	carrierVehicles []string
	escortDrivers   []string
	escortVehicles  []string

	state State
}

// NewSession opens a session for the trip, pre-filling slots from the
// trip's persisted assignment fields. Population is idempotent: opening
// twice on an unmodified trip yields identical pre-fills.
func NewSession(trip model.Trip, plan SlotPlan) *Session {
	s := &Session{
		trip:            trip.Clone(),
		plan:            plan,
		carrierDrivers:  make([]string, len(plan.CarrierSlots)),
		carrierVehicles: fitSlots(trip.AssignedVehicleIDs, len(plan.CarrierSlots)),
		escortDrivers:   make([]string, plan.EscortSlots),
		escortVehicles:  fitSlots(trip.EscortVehicleIDs, plan.EscortSlots),
		state:           StatePopulated,
	}
	// No per-slot driver list is persisted upstream; fall back to the
	// trip's legacy single driver field for the first carrier slot.
	// Escort driver slots always start empty.
	if len(s.carrierDrivers) > 0 {
		s.carrierDrivers[0] = trip.DriverID
	}
	s.dedupe()
	return s
}

// fitSlots pads or truncates ids to exactly n slots.
func fitSlots(ids []string, n int) []string {
	out := make([]string, n)
	copy(out, ids)
	return out
}

// dedupe enforces the population invariant: a vehicle id appearing in
// both a carrier and an escort slot keeps the carrier slot and clears
// the escort one, and no id appears twice within a section.
func (s *Session) dedupe() {
	seen := make(map[string]bool)
	for i, id := range s.carrierVehicles {
		if id == "" {
			continue
		}
		if seen[id] {
			s.carrierVehicles[i] = ""
			continue
		}
		seen[id] = true
	}
	for i, id := range s.escortVehicles {
		if id == "" {
			continue
		}
		if seen[id] {
			s.escortVehicles[i] = ""
			continue
		}
		seen[id] = true
	}
	seen = make(map[string]bool)
	for _, slots := range [][]string{s.carrierDrivers, s.escortDrivers} {
		for i, id := range slots {
			if id == "" {
				continue
			}
			if seen[id] {
				slots[i] = ""
				continue
			}
			seen[id] = true
		}
	}
}

// Trip returns the trip snapshot the session was opened on.
func (s *Session) Trip() model.Trip { return s.trip.Clone() }

// Plan returns the resolved slot plan.
func (s *Session) Plan() SlotPlan { return s.plan }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// CarrierDrivers returns a copy of the carrier driver selections.
func (s *Session) CarrierDrivers() []string { return append([]string(nil), s.carrierDrivers...) }

// CarrierVehicles returns a copy of the carrier vehicle selections.
func (s *Session) CarrierVehicles() []string { return append([]string(nil), s.carrierVehicles...) }

// EscortDrivers returns a copy of the escort driver selections.
func (s *Session) EscortDrivers() []string { return append([]string(nil), s.escortDrivers...) }

// EscortVehicles returns a copy of the escort vehicle selections.
func (s *Session) EscortVehicles() []string { return append([]string(nil), s.escortVehicles...) }

// MarkCommitted finalizes the session after a successful commit.
func (s *Session) MarkCommitted() { s.state = StateCommitted }

// MarkRejected records a failed validation or commit. Selections stay
// intact and the next edit returns the session to Editing.
func (s *Session) MarkRejected() { s.state = StateRejected }

func (s *Session) editable() error {
	switch s.state {
	case StatePopulated, StateEditing, StateRejected:
		return nil
	case StateCommitted:
		return newValidationError("session already committed")
	default:
		return newValidationError(fmt.Sprintf("session is %s, not editable", s.state))
	}
}

// SetCarrierDriver selects a driver into the given carrier slot. An
// empty id clears the slot.
func (s *Session) SetCarrierDriver(slot int, id string) error {
	return s.setDriver(s.carrierDrivers, "carrier driver", slot, id)
}

// SetEscortDriver selects a driver into the given escort slot.
func (s *Session) SetEscortDriver(slot int, id string) error {
	return s.setDriver(s.escortDrivers, "escort driver", slot, id)
}

// SetCarrierVehicle selects a vehicle into the given carrier slot.
func (s *Session) SetCarrierVehicle(slot int, id string) error {
	return s.setVehicle(s.carrierVehicles, "carrier vehicle", slot, id)
}

// SetEscortVehicle selects a vehicle into the given escort slot.
func (s *Session) SetEscortVehicle(slot int, id string) error {
	return s.setVehicle(s.escortVehicles, "escort vehicle", slot, id)
}

// Selections is a batch of slot edits. Each list addresses its section
// from slot 0 upward; slots beyond the list's length are untouched.
type Selections struct {
	CarrierDrivers  []string
	CarrierVehicles []string
	EscortDrivers   []string
	EscortVehicles  []string
}

// Apply sets every addressed slot in one pass. Addressed slots are
// cleared before the new values land, so a request may swap two values
// between its slots without tripping the duplicate check. On any error
// the session rolls back to its previous selections.
func (s *Session) Apply(sel Selections) error {
	if err := s.editable(); err != nil {
		return err
	}
	saved := [4][]string{
		append([]string(nil), s.carrierDrivers...),
		append([]string(nil), s.carrierVehicles...),
		append([]string(nil), s.escortDrivers...),
		append([]string(nil), s.escortVehicles...),
	}
	savedState := s.state
	clearAddressed(s.carrierDrivers, len(sel.CarrierDrivers))
	clearAddressed(s.carrierVehicles, len(sel.CarrierVehicles))
	clearAddressed(s.escortDrivers, len(sel.EscortDrivers))
	clearAddressed(s.escortVehicles, len(sel.EscortVehicles))
	if err := s.applySelections(sel); err != nil {
		s.carrierDrivers, s.carrierVehicles = saved[0], saved[1]
		s.escortDrivers, s.escortVehicles = saved[2], saved[3]
		s.state = savedState
		return err
	}
	s.state = StateEditing
	return nil
}

func (s *Session) applySelections(sel Selections) error {
	for i, id := range sel.CarrierVehicles {
		if err := s.SetCarrierVehicle(i, id); err != nil {
			return err
		}
	}
	for i, id := range sel.CarrierDrivers {
		if err := s.SetCarrierDriver(i, id); err != nil {
			return err
		}
	}
	for i, id := range sel.EscortVehicles {
		if err := s.SetEscortVehicle(i, id); err != nil {
			return err
		}
	}
	for i, id := range sel.EscortDrivers {
		if err := s.SetEscortDriver(i, id); err != nil {
			return err
		}
	}
	return nil
}

func clearAddressed(slots []string, n int) {
	for i := 0; i < n && i < len(slots); i++ {
		slots[i] = ""
	}
}

func (s *Session) setDriver(slots []string, label string, slot int, id string) error {
	if err := s.editable(); err != nil {
		return err
	}
	if slot < 0 || slot >= len(slots) {
		return newValidationError(fmt.Sprintf("no %s slot %d", label, slot))
	}
	if id != "" && s.driverUsedElsewhere(id, &slots[slot]) {
		return newValidationError(fmt.Sprintf("driver %s is already selected in another slot", id))
	}
	slots[slot] = id
	s.state = StateEditing
	return nil
}

func (s *Session) setVehicle(slots []string, label string, slot int, id string) error {
	if err := s.editable(); err != nil {
		return err
	}
	if slot < 0 || slot >= len(slots) {
		return newValidationError(fmt.Sprintf("no %s slot %d", label, slot))
	}
	if id != "" && s.vehicleUsedElsewhere(id, &slots[slot]) {
		return newValidationError(fmt.Sprintf("vehicle %s is already selected in another slot", id))
	}
	slots[slot] = id
	s.state = StateEditing
	return nil
}

// driverUsedElsewhere reports whether id sits in any driver slot other
// than the one addressed by skip.
func (s *Session) driverUsedElsewhere(id string, skip *string) bool {
	return usedElsewhere(id, skip, s.carrierDrivers, s.escortDrivers)
}

// vehicleUsedElsewhere reports whether id sits in any vehicle slot other
// than the one addressed by skip.
func (s *Session) vehicleUsedElsewhere(id string, skip *string) bool {
	return usedElsewhere(id, skip, s.carrierVehicles, s.escortVehicles)
}

func usedElsewhere(id string, skip *string, sections ...[]string) bool {
	for _, slots := range sections {
		for i := range slots {
			if &slots[i] == skip {
				continue
			}
			if slots[i] == id {
				return true
			}
		}
	}
	return false
}

// CandidateCarrierVehicles returns the vehicles selectable for the
// carrier slot: matching the slot's required type, not chosen in any
// sibling slot, and free for the trip's window.
func (s *Session) CandidateCarrierVehicles(slot int, pool []model.Vehicle, trips []model.Trip, chk *availability.Checker, opts availability.Options) []model.Vehicle {
	if slot < 0 || slot >= len(s.plan.CarrierSlots) {
		return nil
	}
	required := s.plan.CarrierSlots[slot]
	return s.candidateVehicles(&s.carrierVehicles[slot], required, false, pool, trips, chk, opts)
}

// CandidateEscortVehicles returns the vehicles selectable for the escort
// slot. Vehicles flagged as escort-assigned upstream are excluded as a
// fallback signal unless this slot already holds them.
func (s *Session) CandidateEscortVehicles(slot int, pool []model.Vehicle, trips []model.Trip, chk *availability.Checker, opts availability.Options) []model.Vehicle {
	if slot < 0 || slot >= s.plan.EscortSlots {
		return nil
	}
	return s.candidateVehicles(&s.escortVehicles[slot], "", true, pool, trips, chk, opts)
}

func (s *Session) candidateVehicles(current *string, required model.VehicleType, escort bool, pool []model.Vehicle, trips []model.Trip, chk *availability.Checker, opts availability.Options) []model.Vehicle {
	opts.ExcludeTripID = s.trip.ID
	// The checker widens occupying trips by the buffer; the candidate
	// window stays raw so the gap is not counted twice.
	window := schedule.ForTrip(s.trip, 0)
	var out []model.Vehicle
	for _, v := range pool {
		if required != "" && v.Type != required {
			continue
		}
		if escort && v.IsEscortAssigned && *current != v.ID {
			continue
		}
		if s.vehicleUsedElsewhere(v.ID, current) {
			continue
		}
		if !chk.Check(model.VehicleRef(v.ID), window, trips, opts).Available {
			continue
		}
		out = append(out, v)
	}
	return out
}

// CandidateCarrierDrivers returns the drivers selectable for the carrier
// slot: assignable, not chosen in any sibling slot, and free for the
// trip's window.
func (s *Session) CandidateCarrierDrivers(slot int, pool []model.Driver, trips []model.Trip, chk *availability.Checker, opts availability.Options) []model.Driver {
	if slot < 0 || slot >= len(s.carrierDrivers) {
		return nil
	}
	return s.candidateDrivers(&s.carrierDrivers[slot], pool, trips, chk, opts)
}

// CandidateEscortDrivers returns the drivers selectable for the escort
// slot.
func (s *Session) CandidateEscortDrivers(slot int, pool []model.Driver, trips []model.Trip, chk *availability.Checker, opts availability.Options) []model.Driver {
	if slot < 0 || slot >= len(s.escortDrivers) {
		return nil
	}
	return s.candidateDrivers(&s.escortDrivers[slot], pool, trips, chk, opts)
}

func (s *Session) candidateDrivers(current *string, pool []model.Driver, trips []model.Trip, chk *availability.Checker, opts availability.Options) []model.Driver {
	opts.ExcludeTripID = s.trip.ID
	window := schedule.ForTrip(s.trip, 0)
	var out []model.Driver
	for _, d := range pool {
		if !d.Assignable() {
			continue
		}
		if s.driverUsedElsewhere(d.ID, current) {
			continue
		}
		if !chk.Check(model.DriverRef(d.ID), window, trips, opts).Available {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Validate checks the session is complete enough to commit: every
// required carrier vehicle slot must be filled. On failure the session
// is editable again with selections intact.
func (s *Session) Validate() error {
	if s.state == StateCommitted {
		return newValidationError("session already committed")
	}
	s.state = StateValidating
	for _, id := range s.carrierVehicles {
		if id == "" {
			s.state = StateEditing
			return newValidationError("assign all required vehicles for the trip")
		}
	}
	return nil
}

// Changes builds the atomic trip mutation: the primary driver and
// vehicle come from the first filled carrier slot, followed by the full
// carrier and escort vehicle lists.
func (s *Session) Changes() TripChanges {
	return TripChanges{
		DriverID:           firstFilled(s.carrierDrivers),
		VehicleID:          firstFilled(s.carrierVehicles),
		AssignedVehicleIDs: filled(s.carrierVehicles),
		EscortVehicleIDs:   filled(s.escortVehicles),
	}
}

// SelectedResources lists every chosen resource as a tagged reference,
// used for the commit-time availability re-check.
func (s *Session) SelectedResources() []model.ResourceRef {
	var out []model.ResourceRef
	for _, id := range append(filled(s.carrierDrivers), filled(s.escortDrivers)...) {
		out = append(out, model.DriverRef(id))
	}
	for _, id := range append(filled(s.carrierVehicles), filled(s.escortVehicles)...) {
		out = append(out, model.VehicleRef(id))
	}
	return out
}

// AssignmentDrafts returns one pending assignment per filled driver
// slot, carrier slots first.
func (s *Session) AssignmentDrafts() []AssignmentDraft {
	var out []AssignmentDraft
	for _, id := range append(filled(s.carrierDrivers), filled(s.escortDrivers)...) {
		out = append(out, AssignmentDraft{TripID: s.trip.ID, DriverID: id})
	}
	return out
}

func firstFilled(slots []string) string {
	for _, id := range slots {
		if id != "" {
			return id
		}
	}
	return ""
}

func filled(slots []string) []string {
	out := make([]string, 0, len(slots))
	for _, id := range slots {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
