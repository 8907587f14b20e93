package doctor

import (
	"context"
	"fmt"
	"io"

	"github.com/clinicdesk/admin-console/internal/listview"
	"github.com/clinicdesk/admin-console/internal/model"
	"github.com/clinicdesk/admin-console/internal/upstream"
	"github.com/clinicdesk/admin-console/pkg/errors"
)

// Service orchestrates doctor reads and mutations. Mutations reconcile the
// page's list controller in place instead of refetching.
type Service struct {
	client       *upstream.Client
	defaultLimit int
}

func NewService(client *upstream.Client, defaultLimit int) *Service {
	return &Service{client: client, defaultLimit: defaultLimit}
}

// NewListController builds the list state for the doctors page.
func (s *Service) NewListController(token string) *listview.Controller[model.Doctor] {
	return listview.NewController(s.client, token, "/admin/doctors", s.defaultLimit, func(d model.Doctor) string {
		return d.ID
	})
}

// Get fetches the full doctor record; the availability collection is
// normalized to canonical weekday order for display.
func (s *Service) Get(ctx context.Context, token, id string) (*model.Doctor, error) {
	var doc model.Doctor
	if err := s.client.Get(ctx, token, "/admin/doctors/"+id, &doc); err != nil {
		return nil, errors.NewBadRequest(upstream.Message(err), err)
	}
	model.SortAvailability(doc.Availability)
	return &doc, nil
}

// Delete issues one batched delete for all ids and removes exactly those ids
// from the local list, with the pagination recomputed locally.
func (s *Service) Delete(ctx context.Context, token string, list *listview.Controller[model.Doctor], ids []string) (string, error) {
	if len(ids) == 0 {
		return "", errors.NewValidation("no doctors selected")
	}

	var resp struct {
		Message string `json:"message"`
	}
	err := s.client.Delete(ctx, token, "/admin/doctors", model.DeleteDoctorsRequest{DoctorIDs: ids}, &resp)
	if err != nil {
		return "", errors.NewBadRequest(upstream.Message(err), err)
	}

	list.RemoveByID(ids)
	return resp.Message, nil
}

// ChangeStatus flips the two-state flag through the status endpoint and
// patches only the status field of the matching local record.
func (s *Service) ChangeStatus(ctx context.Context, token string, list *listview.Controller[model.Doctor], id string, status model.DoctorStatus) error {
	var resp struct {
		Data struct {
			Status model.DoctorStatus `json:"status"`
		} `json:"data"`
	}
	path := fmt.Sprintf("/admin/doctors/status/%s", id)
	err := s.client.Put(ctx, token, path, model.UpdateDoctorStatusRequest{Status: status}, &resp)
	if err != nil {
		return errors.NewBadRequest(upstream.Message(err), err)
	}

	list.PatchByID(id, func(d *model.Doctor) {
		d.Status = resp.Data.Status
	})
	return nil
}

// UpdateProfile sends a partial field set for a doctor record.
func (s *Service) UpdateProfile(ctx context.Context, token, id string, patch model.ProfilePatch) error {
	if patch.IsZero() {
		return errors.NewValidation("no fields to update")
	}
	if err := s.client.Put(ctx, token, "/admin/doctors/"+id, patch, nil); err != nil {
		return errors.NewBadRequest(upstream.Message(err), err)
	}
	return nil
}

// UploadImage replaces a doctor's profile image and patches only the image
// field of the matching local record.
func (s *Service) UploadImage(ctx context.Context, token string, list *listview.Controller[model.Doctor], id, filename string, file io.Reader) (string, error) {
	var resp struct {
		Data struct {
			Image string `json:"image"`
		} `json:"data"`
	}
	path := fmt.Sprintf("/admin/doctors/%s/upload-image", id)
	if err := s.client.PostMultipart(ctx, token, path, "image", filename, file, &resp); err != nil {
		return "", errors.NewBadRequest(upstream.Message(err), err)
	}

	list.PatchByID(id, func(d *model.Doctor) {
		d.Image = resp.Data.Image
	})
	return resp.Data.Image, nil
}

// ResolveImage resolves a relative image path against the image base URL.
func (s *Service) ResolveImage(rel string) string {
	return s.client.ResolveImage(rel)
}

// Specialities returns the speciality filter vocabulary. The list is fixed
// rather than derived from the current page, so an empty page still offers
// every option.
func (s *Service) Specialities() []model.Speciality {
	return model.Specialities
}

// AssignPermissions replaces a doctor's permission grants (admin-only).
func (s *Service) AssignPermissions(ctx context.Context, token, doctorID string, permissionIDs []string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	path := fmt.Sprintf("/admin/permission/%s/permissions", doctorID)
	err := s.client.Post(ctx, token, path, model.AssignPermissionsRequest{PermissionIDs: permissionIDs}, &resp)
	if err != nil {
		return "", errors.NewBadRequest(upstream.Message(err), err)
	}
	return resp.Message, nil
}
