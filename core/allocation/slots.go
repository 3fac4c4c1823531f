// Package allocation turns a trip's declared needs into resource slots
// and tracks an operator's slot selections through an explicit session.
package allocation

import "github.com/ahmedNJ467/koormatics-dispatch/core/model"

// MaxVisibleEscortSlots caps the number of escort slots offered to the
// operator. Requests above the cap are not silently dropped: the
// overflow is carried on the plan and surfaced as a warning.
const MaxVisibleEscortSlots = 2

// SlotPlan is the ordered list of resource slots a trip requires.
type SlotPlan struct {
	// CarrierSlots holds one required vehicle type per carrier slot:
	// all armoured slots first, then all soft-skin slots. The order is
	// stable so slot indexes survive re-population.
	CarrierSlots []model.VehicleType `json:"carrier_slots"`
	// EscortSlots is the number of visible escort vehicle/driver slots.
	EscortSlots int `json:"escort_slots"`
	// EscortOverflow counts requested escorts beyond the visible cap.
	EscortOverflow int `json:"escort_overflow,omitempty"`
}

// ResolveSlots derives the slot plan for a trip.
func ResolveSlots(t model.Trip) SlotPlan {
	var plan SlotPlan
	for i := 0; i < t.ArmouredCount; i++ {
		plan.CarrierSlots = append(plan.CarrierSlots, model.VehicleArmoured)
	}
	for i := 0; i < t.SoftSkinCount; i++ {
		plan.CarrierSlots = append(plan.CarrierSlots, model.VehicleSoftSkin)
	}
	if t.HasEscort && t.EscortCount > 0 {
		plan.EscortSlots = t.EscortCount
		if plan.EscortSlots > MaxVisibleEscortSlots {
			plan.EscortOverflow = plan.EscortSlots - MaxVisibleEscortSlots
			plan.EscortSlots = MaxVisibleEscortSlots
		}
	}
	return plan
}
