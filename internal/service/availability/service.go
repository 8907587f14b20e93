package availability

import (
	"context"

	"github.com/clinicdesk/admin-console/internal/model"
	"github.com/clinicdesk/admin-console/internal/upstream"
	"github.com/clinicdesk/admin-console/pkg/errors"
)

// Service manages per-doctor weekly availability windows. The collection is
// owned by the doctor detail page; mutations here return the records to
// splice in so the page never refetches the whole doctor.
type Service struct {
	client *upstream.Client
}

func NewService(client *upstream.Client) *Service {
	return &Service{client: client}
}

type createPayload struct {
	DoctorID       string   `json:"doctorId"`
	Days           []string `json:"days"`
	StartTime      string   `json:"startTime"`
	EndTime        string   `json:"endTime"`
	BreakStartTime string   `json:"breakStartTime"`
	BreakEndTime   string   `json:"breakEndTime"`
}

// Add applies one time-window template across the selected weekdays and
// returns the created records, already merged into canonical weekday order
// with the existing collection left to the caller. At least one day must be
// selected, every day must be a real weekday, and a day that already has a
// window is rejected before any network call: the editor treats
// (doctor, day) as unique.
func (s *Service) Add(ctx context.Context, token, doctorID string, req model.AddAvailabilityRequest, existing []model.Availability) ([]model.Availability, error) {
	if len(req.Days) == 0 {
		return nil, errors.NewValidation("select at least one day")
	}
	taken := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		taken[a.Day] = struct{}{}
	}
	seen := make(map[string]struct{}, len(req.Days))
	for _, day := range req.Days {
		if !model.IsWeekday(day) {
			return nil, errors.NewValidation("unknown weekday: " + day)
		}
		if _, dup := seen[day]; dup {
			return nil, errors.NewValidation("duplicate day: " + day)
		}
		seen[day] = struct{}{}
		if _, exists := taken[day]; exists {
			return nil, errors.NewValidation(day + " already has an availability window")
		}
	}

	var resp struct {
		Data []model.Availability `json:"data"`
	}
	payload := createPayload{
		DoctorID:       doctorID,
		Days:           req.Days,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		BreakStartTime: req.BreakStartTime,
		BreakEndTime:   req.BreakEndTime,
	}
	if err := s.client.Post(ctx, token, "/admin/doctors/availability", payload, &resp); err != nil {
		return nil, errors.NewBadRequest(upstream.Message(err), err)
	}
	return resp.Data, nil
}

// Edit replaces the window fields of the single record matched by day. Only
// the four time fields change; identity fields stay as they are.
func (s *Service) Edit(ctx context.Context, token, id string, window model.AvailabilityWindow) (*model.Availability, error) {
	var resp struct {
		Data model.Availability `json:"data"`
	}
	if err := s.client.Put(ctx, token, "/admin/doctors/availability/"+id, window, &resp); err != nil {
		return nil, errors.NewBadRequest(upstream.Message(err), err)
	}
	return &resp.Data, nil
}

// Delete removes the given records in one batched request.
func (s *Service) Delete(ctx context.Context, token string, ids []string) (string, error) {
	if len(ids) == 0 {
		return "", errors.NewValidation("no availability selected")
	}

	var resp struct {
		Message string `json:"message"`
	}
	err := s.client.Delete(ctx, token, "/admin/doctors/availability", model.DeleteAvailabilityRequest{AvailabilityIDs: ids}, &resp)
	if err != nil {
		return "", errors.NewBadRequest(upstream.Message(err), err)
	}
	return resp.Message, nil
}

// Merge splices mutation results into an existing collection: added records
// appended, edited ones replaced by id, deleted ids dropped. The result is
// always in canonical Monday→Sunday order.
func Merge(existing, added []model.Availability, edited *model.Availability, deleted []string) []model.Availability {
	gone := make(map[string]struct{}, len(deleted))
	for _, id := range deleted {
		gone[id] = struct{}{}
	}

	out := make([]model.Availability, 0, len(existing)+len(added))
	for _, a := range existing {
		if _, drop := gone[a.ID]; drop {
			continue
		}
		if edited != nil && a.ID == edited.ID {
			a = *edited
		}
		out = append(out, a)
	}
	out = append(out, added...)
	model.SortAvailability(out)
	return out
}
