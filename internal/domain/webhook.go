package domain

// WebhookPayload is the inbound webhook body from the request-management tool
// (Jellyseerr-compatible). Every field is optional; the payload is untrusted
// and must be defaulted, never assumed present. Unknown fields are ignored.
type WebhookPayload struct {
	NotificationType string          `json:"notification_type"`
	Event            string          `json:"event"`
	Subject          string          `json:"subject"`
	Message          string          `json:"message"`
	Image            string          `json:"image"`
	Media            *WebhookMedia   `json:"media"`
	Request          *WebhookRequest `json:"request"`
	Issue            *WebhookIssue   `json:"issue"`
	Comment          *WebhookComment `json:"comment"`
}

// RequestedBy returns the username of the requesting user, or the empty
// string when the request block is absent.
func (p *WebhookPayload) RequestedBy() string {
	if p.Request == nil {
		return ""
	}
	return p.Request.RequestedByUsername
}

// WebhookMedia describes the media item the event refers to.
type WebhookMedia struct {
	MediaType string `json:"media_type"`
	TmdbID    string `json:"tmdbId"`
	TvdbID    string `json:"tvdbId"`
	Status    string `json:"status"`
	Status4k  string `json:"status4k"`
}

// WebhookRequest describes the media request and the user who made it.
type WebhookRequest struct {
	RequestID           string `json:"request_id"`
	RequestedByEmail    string `json:"requestedBy_email"`
	RequestedByUsername string `json:"requestedBy_username"`
	RequestedByAvatar   string `json:"requestedBy_avatar"`
}

// WebhookIssue describes an issue thread. Issue events are recognised only so
// they can be ignored; they never become push notifications.
type WebhookIssue struct {
	IssueID            string `json:"issue_id"`
	IssueType          string `json:"issue_type"`
	IssueStatus        string `json:"issue_status"`
	ReportedByEmail    string `json:"reportedBy_email"`
	ReportedByUsername string `json:"reportedBy_username"`
}

// WebhookComment describes a comment on an issue thread.
type WebhookComment struct {
	CommentMessage      string `json:"comment_message"`
	CommentedByEmail    string `json:"commentedBy_email"`
	CommentedByUsername string `json:"commentedBy_username"`
}
