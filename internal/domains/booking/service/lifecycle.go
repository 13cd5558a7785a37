package service

import (
	"fmt"
	"time"

	"carrental/internal/domains/booking/model"
	"carrental/internal/domains/booking/model/dto"
	"carrental/shared/constant"
	"carrental/shared/failure"
	"carrental/shared/timezone"

	"github.com/shopspring/decimal"
)

// updatePlan is the staged result of merging a partial update over the
// stored booking. It is built in two phases so the caller can run the
// overlap check and cost recomputation between them with the effective
// range already resolved:
//
//  1. newUpdatePlan: terminal-state guard, status normalization,
//     explicit transition derivations, effective date range.
//  2. validateDates: pickup/return ordering, future-date and
//     period-bound checks, implicit date-driven transitions.
type updatePlan struct {
	current model.Booking

	status model.Status
	start  time.Time
	end    time.Time
	pickup *time.Time
	ret    *time.Time

	pickupSupplied bool
	returnSupplied bool
}

func newUpdatePlan(current model.Booking, req dto.UpdateBookingRequest, today time.Time) (*updatePlan, error) {
	if current.Status.IsTerminal() {
		return nil, failure.Conflict(fmt.Sprintf("booking %s is %s and can no longer be updated", current.ID, current.Status))
	}

	plan := &updatePlan{
		current: current,
		status:  current.Status,
		start:   current.StartDate,
		end:     current.EndDate,
		pickup:  current.PickupDate,
		ret:     current.ReturnDate,
	}

	if err := plan.mergeDates(req); err != nil {
		return nil, err
	}

	if req.Status != constant.Empty {
		next, err := model.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}

		if err = plan.applyExplicitTransition(next, today); err != nil {
			return nil, err
		}
	}

	if plan.end.Before(plan.start) {
		return nil, failure.BadRequestFromString(fmt.Sprintf(
			"invalid booking period: end date %s is before start date %s",
			plan.end.Format(constant.DateOnlyFormat), plan.start.Format(constant.DateOnlyFormat),
		))
	}

	return plan, nil
}

func (p *updatePlan) mergeDates(req dto.UpdateBookingRequest) error {
	parse := func(field, value string, into *time.Time) error {
		parsed, err := time.Parse(constant.DateOnlyFormat, value)
		if err != nil {
			return failure.BadRequestFromString(fmt.Sprintf("invalid %s: %s", field, value))
		}

		*into = parsed

		return nil
	}

	if req.StartDate != constant.Empty {
		if err := parse(model.FieldStartDate, req.StartDate, &p.start); err != nil {
			return err
		}
	}

	if req.EndDate != constant.Empty {
		if err := parse(model.FieldEndDate, req.EndDate, &p.end); err != nil {
			return err
		}
	}

	if req.PickupDate != constant.Empty {
		var pickup time.Time
		if err := parse(model.FieldPickupDate, req.PickupDate, &pickup); err != nil {
			return err
		}

		p.pickup = &pickup
		p.pickupSupplied = true
	}

	if req.ReturnDate != constant.Empty {
		var ret time.Time
		if err := parse(model.FieldReturnDate, req.ReturnDate, &ret); err != nil {
			return err
		}

		p.ret = &ret
		p.returnSupplied = true
	}

	return nil
}

// applyExplicitTransition validates a requested status change and
// derives the accompanying date when the request did not carry one.
// Dates derived here go through the same validation as supplied ones.
func (p *updatePlan) applyExplicitTransition(next model.Status, today time.Time) error {
	current := p.current.Status

	switch {
	case next == current:
		// no-op, e.g. resubmitting the current status

	case current == model.StatusPlanned && next == model.StatusActive:
		p.status = next

		if p.pickup == nil {
			pickup := today
			p.pickup = &pickup
			p.pickupSupplied = true
		}

	case (current == model.StatusActive || current == model.StatusOverdue) && next == model.StatusCompleted:
		p.status = next

		if p.ret == nil {
			ret := today
			p.ret = &ret
			p.returnSupplied = true
		}

	case current.IsLive() && next == model.StatusCanceled:
		p.status = next

	default:
		return failure.Conflict(fmt.Sprintf("booking %s cannot move from %s to %s", p.current.ID, current, next))
	}

	return nil
}

// rangeChanged reports whether the effective range differs from the
// stored one.
func (p *updatePlan) rangeChanged() bool {
	return !p.start.Equal(p.current.StartDate) || !p.end.Equal(p.current.EndDate)
}

func (p *updatePlan) validateDates(today time.Time) error {
	if p.pickup != nil && p.ret != nil && p.ret.Before(*p.pickup) {
		return failure.BadRequestFromString(fmt.Sprintf(
			"return date %s is before pickup date %s",
			p.ret.Format(constant.DateOnlyFormat), p.pickup.Format(constant.DateOnlyFormat),
		))
	}

	if p.pickupSupplied {
		if p.pickup.After(today) {
			return failure.BadRequestFromString(fmt.Sprintf("pickup date %s is in the future", p.pickup.Format(constant.DateOnlyFormat)))
		}

		if p.status == model.StatusPlanned {
			p.status = model.StatusActive
		}

		if p.pickup.Before(p.start) || p.pickup.After(p.end) {
			return failure.BadRequestFromString(fmt.Sprintf(
				"pickup date %s is outside the booking period %s to %s",
				p.pickup.Format(constant.DateOnlyFormat), p.start.Format(constant.DateOnlyFormat), p.end.Format(constant.DateOnlyFormat),
			))
		}
	}

	if p.returnSupplied {
		if p.ret.After(today) {
			return failure.BadRequestFromString(fmt.Sprintf("return date %s is in the future", p.ret.Format(constant.DateOnlyFormat)))
		}

		if p.status == model.StatusActive || p.current.Status == model.StatusActive || p.current.Status == model.StatusOverdue {
			p.status = model.StatusCompleted
		}

		if p.pickup == nil {
			return failure.BadRequestFromString("return date supplied for a booking that was never picked up")
		}

		// A late return on an overdue booking may land past the period
		// end, but never before its start.
		if p.ret.Before(p.start) || (p.current.Status != model.StatusOverdue && p.ret.After(p.end)) {
			return failure.BadRequestFromString(fmt.Sprintf(
				"return date %s is outside the booking period %s to %s",
				p.ret.Format(constant.DateOnlyFormat), p.start.Format(constant.DateOnlyFormat), p.end.Format(constant.DateOnlyFormat),
			))
		}
	}

	return nil
}

// changes collects the columns to persist for the merged update.
func (p *updatePlan) changes(totalCost decimal.Decimal, user string) map[string]any {
	fields := map[string]any{
		model.FieldStartDate:     p.start,
		model.FieldEndDate:       p.end,
		model.FieldStatus:        string(p.status),
		model.FieldTotalCost:     totalCost,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if p.pickup != nil {
		fields[model.FieldPickupDate] = *p.pickup
	}

	if p.ret != nil {
		fields[model.FieldReturnDate] = *p.ret
	}

	return fields
}
