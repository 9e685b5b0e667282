package httpapi

import (
	"context"
	"time"

	"github.com/ttakano/climblog/internal/server/models"
)

// Response shapes are explicit projections. Model fields that must not
// leave the server (credential hashes, raw storage keys) have no place to
// leak from because they are simply not here.

type MountainResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Prefecture string `json:"prefecture"`
	Elevation  int    `json:"elevation"`
}

func toMountainResponse(m *models.Mountain) MountainResponse {
	return MountainResponse{
		ID:         m.ID,
		Name:       m.Name,
		Prefecture: m.Prefecture,
		Elevation:  m.Elevation,
	}
}

func toMountainResponses(ms []*models.Mountain) []MountainResponse {
	out := make([]MountainResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMountainResponse(m))
	}
	return out
}

type RecordResponse struct {
	ID        int64     `json:"id"`
	User      string    `json:"user"`
	Mountain  int64     `json:"mountain"`
	ClimbDate string    `json:"climb_date"`
	Comment   string    `json:"comment"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) toRecordResponse(ctx context.Context, rec *models.ClimbRecord) (RecordResponse, error) {
	photoURL, err := s.records.PhotoURL(ctx, rec.PhotoKey)
	if err != nil {
		return RecordResponse{}, err
	}
	return RecordResponse{
		ID:        rec.ID,
		User:      rec.Username,
		Mountain:  rec.MountainID,
		ClimbDate: rec.ClimbDate.Format("2006-01-02"),
		Comment:   rec.Comment,
		PhotoURL:  photoURL,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

func (s *Server) toRecordResponses(ctx context.Context, recs []*models.ClimbRecord) ([]RecordResponse, error) {
	out := make([]RecordResponse, 0, len(recs))
	for _, rec := range recs {
		r, err := s.toRecordResponse(ctx, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Staff    bool   `json:"staff"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Staff:    u.Staff,
	}
}
