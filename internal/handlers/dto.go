package handlers

import (
	"time"

	"github.com/BradenHooton/wikiboard/internal/models"
	"github.com/BradenHooton/wikiboard/internal/policy"
	"github.com/BradenHooton/wikiboard/internal/services"
)

const timeFormat = time.RFC3339

// AuthorResponse is the public slice of an entry's owner
type AuthorResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Badge     string `json:"badge"`
}

// EntryResponse represents a wiki entry in HTTP responses. The special access
// token is only ever filled for the entry's owner.
type EntryResponse struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	ImageURL           *string         `json:"image_url"`
	Status             string          `json:"status"`
	Verification       string          `json:"verification"`
	IsSpecial          bool            `json:"is_special"`
	SpecialAccessToken string          `json:"special_access_token,omitempty"`
	Author             *AuthorResponse `json:"author,omitempty"`
	LikeCount          *int64          `json:"like_count,omitempty"`
	CommentCount       *int64          `json:"comment_count,omitempty"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`
}

func entryToResponse(entry *models.WikiEntry, viewer *models.User) *EntryResponse {
	resp := &EntryResponse{
		ID:           entry.ID,
		UserID:       entry.UserID,
		Title:        entry.Title,
		Description:  entry.Description,
		ImageURL:     entry.ImageURL,
		Status:       string(entry.Status),
		Verification: string(entry.Verification),
		IsSpecial:    entry.IsSpecial,
		CreatedAt:    entry.CreatedAt.Format(timeFormat),
		UpdatedAt:    entry.UpdatedAt.Format(timeFormat),
	}
	if entry.IsSpecial && entry.SpecialAccessToken != nil && policy.IsOwner(entry, viewer) {
		resp.SpecialAccessToken = *entry.SpecialAccessToken
	}
	return resp
}

func entryViewToResponse(view *models.EntryView, viewer *models.User) *EntryResponse {
	resp := entryToResponse(view.Entry, viewer)
	resp.Author = &AuthorResponse{
		ID:        view.Author.ID,
		Name:      view.Author.Name,
		AvatarURL: view.Author.AvatarURL,
		Badge:     view.Author.Badge,
	}
	likes, comments := view.LikeCount, view.CommentCount
	resp.LikeCount = &likes
	resp.CommentCount = &comments
	return resp
}

func entryViewsToResponse(views []*models.EntryView, viewer *models.User) []*EntryResponse {
	out := make([]*EntryResponse, 0, len(views))
	for _, v := range views {
		out = append(out, entryViewToResponse(v, viewer))
	}
	return out
}

// ProfileResponse is a user's public profile
type ProfileResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Bio           string `json:"bio"`
	AvatarURL     string `json:"avatar_url"`
	BackgroundURL string `json:"background_url"`
	Role          string `json:"role"`
	Badge         string `json:"badge"`
	CreatedAt     string `json:"created_at"`
}

// UserResponse is the full user record, shown to the user themselves and admins
type UserResponse struct {
	ProfileResponse
	Email       string  `json:"email"`
	IsAdmin     bool    `json:"is_admin"`
	IsBanned    bool    `json:"is_banned"`
	BannedUntil *string `json:"banned_until"`
	BanReason   *string `json:"ban_reason"`
	UpdatedAt   string  `json:"updated_at"`
}

func profileToResponse(user *models.User) ProfileResponse {
	return ProfileResponse{
		ID:            user.ID,
		Name:          user.Name,
		Bio:           user.Bio,
		AvatarURL:     user.AvatarURL,
		BackgroundURL: user.BackgroundURL,
		Role:          policy.EffectiveRole(user),
		Badge:         user.Badge,
		CreatedAt:     user.CreatedAt.Format(timeFormat),
	}
}

func userToResponse(user *models.User) *UserResponse {
	resp := &UserResponse{
		ProfileResponse: profileToResponse(user),
		Email:           user.Email,
		IsAdmin:         user.IsAdmin,
		IsBanned:        user.IsBanned,
		BanReason:       user.BanReason,
		UpdatedAt:       user.UpdatedAt.Format(timeFormat),
	}
	if user.BannedUntil != nil {
		until := user.BannedUntil.UTC().Format(timeFormat)
		resp.BannedUntil = &until
	}
	return resp
}

func usersToResponse(users []*models.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userToResponse(u))
	}
	return out
}

// BanStatusResponse reports whether the current user is banned
type BanStatusResponse struct {
	Banned bool    `json:"banned"`
	Reason string  `json:"reason,omitempty"`
	Until  *string `json:"until"`
}

func banStatusToResponse(d policy.BanDecision) *BanStatusResponse {
	resp := &BanStatusResponse{Banned: d.Banned, Reason: d.Reason}
	if d.Until != nil {
		until := d.Until.UTC().Format(timeFormat)
		resp.Until = &until
	}
	return resp
}

// ImageResponse represents a gallery image
type ImageResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	ImageURL  string  `json:"image_url"`
	FileName  *string `json:"file_name"`
	CreatedAt string  `json:"created_at"`
}

func imageToResponse(img *models.UserImage) *ImageResponse {
	return &ImageResponse{
		ID:        img.ID,
		UserID:    img.UserID,
		ImageURL:  img.ImageURL,
		FileName:  img.FileName,
		CreatedAt: img.CreatedAt.Format(timeFormat),
	}
}

// ReportResponse represents a content report
type ReportResponse struct {
	ID          string  `json:"id"`
	EntryID     string  `json:"entry_id"`
	ReporterID  string  `json:"reporter_id"`
	Reason      string  `json:"reason"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func reportToResponse(rep *models.ContentReport) *ReportResponse {
	return &ReportResponse{
		ID:          rep.ID,
		EntryID:     rep.EntryID,
		ReporterID:  rep.ReporterID,
		Reason:      string(rep.Reason),
		Description: rep.Description,
		Status:      string(rep.Status),
		CreatedAt:   rep.CreatedAt.Format(timeFormat),
		UpdatedAt:   rep.UpdatedAt.Format(timeFormat),
	}
}

func reportsToResponse(reports []*models.ContentReport) []*ReportResponse {
	out := make([]*ReportResponse, 0, len(reports))
	for _, rep := range reports {
		out = append(out, reportToResponse(rep))
	}
	return out
}

// CommentResponse represents a comment
type CommentResponse struct {
	ID        string `json:"id"`
	EntryID   string `json:"entry_id"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func commentToResponse(c *models.Comment) *CommentResponse {
	return &CommentResponse{
		ID:        c.ID,
		EntryID:   c.EntryID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.Format(timeFormat),
	}
}

// LikeCountResponse carries an entry's like count after a like or unlike
type LikeCountResponse struct {
	EntryID   string `json:"entry_id"`
	LikeCount int64  `json:"like_count"`
}

// DashboardStatsResponse contains aggregate admin counts
type DashboardStatsResponse struct {
	TotalUsers      int64            `json:"total_users"`
	BannedUsers     int64            `json:"banned_users"`
	EntriesByStatus map[string]int64 `json:"entries_by_status"`
	OpenReports     int64            `json:"open_reports"`
}

func statsToResponse(s *services.DashboardStats) *DashboardStatsResponse {
	byStatus := make(map[string]int64, len(s.EntriesByStatus))
	for status, n := range s.EntriesByStatus {
		byStatus[string(status)] = n
	}
	return &DashboardStatsResponse{
		TotalUsers:      s.TotalUsers,
		BannedUsers:     s.BannedUsers,
		EntriesByStatus: byStatus,
		OpenReports:     s.OpenReports,
	}
}

// AuditLogResponse represents one audit row
type AuditLogResponse struct {
	ID           string                 `json:"id"`
	EventType    string                 `json:"event_type"`
	ActorID      *string                `json:"actor_id"`
	TargetID     *string                `json:"target_id"`
	ResourceType *string                `json:"resource_type"`
	Action       string                 `json:"action"`
	Success      bool                   `json:"success"`
	IPAddress    *string                `json:"ip_address"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt    string                 `json:"created_at"`
}

func auditLogToResponse(l *models.AuditLog) *AuditLogResponse {
	return &AuditLogResponse{
		ID:           l.ID.String(),
		EventType:    l.EventType,
		ActorID:      l.ActorID,
		TargetID:     l.TargetID,
		ResourceType: l.ResourceType,
		Action:       l.Action,
		Success:      l.Success,
		IPAddress:    l.IPAddress,
		Metadata:     l.Metadata,
		CreatedAt:    l.CreatedAt.Format(timeFormat),
	}
}
