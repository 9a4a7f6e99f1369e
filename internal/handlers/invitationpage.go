package handlers

import (
	"context"
	"fmt"
	"html"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/wayfarer-app/wayfarer-api/internal/models"
)

// InvitationPageHandler serves the public landing page behind the links
// embedded in invitation emails. Responding requires signing in, so the page
// forwards into the frontend with the invitation id attached; the flow
// resumes there after authentication.
type InvitationPageHandler struct {
	invitationService InvitationServiceInterface
	appURL            string
}

func NewInvitationPageHandler(invitationService InvitationServiceInterface, appURL string) *InvitationPageHandler {
	return &InvitationPageHandler{
		invitationService: invitationService,
		appURL:            appURL,
	}
}

func (h *InvitationPageHandler) View(c *drift.Context) {
	invitationID, err := uuid.Parse(c.Param("invitationId"))
	if err != nil {
		h.renderError(c, "Invalid invitation link")
		return
	}

	inv, err := h.invitationService.GetWithDetails(context.Background(), invitationID)
	if err != nil {
		h.renderError(c, "Invitation not found")
		return
	}

	if inv.Status != models.InvitationStatusPending {
		h.renderMessage(c, "This invitation has already been "+inv.Status)
		return
	}

	inviterName := "Someone"
	if inv.Inviter != nil {
		inviterName = inv.Inviter.Name
	}
	tripName := "a trip"
	if inv.Trip != nil {
		tripName = inv.Trip.Name
	}

	h.renderInvitePage(c, inv.ID.String(), tripName, inviterName, inv.Role)
}

func (h *InvitationPageHandler) renderInvitePage(c *drift.Context, invitationID, tripName, inviterName, role string) {
	signInURL := fmt.Sprintf("%s/auth?invitation=%s", h.appURL, invitationID)

	// Trip and inviter names come from user input.
	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Trip Invitation</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 400px; margin: 50px auto; padding: 20px; text-align: center; }
        h1 { color: #333; }
        p { color: #666; margin: 20px 0; }
        .trip-name { font-weight: bold; color: #333; }
        .role { display: inline-block; background: #eef2ff; color: #4338ca; border-radius: 9999px; padding: 4px 12px; font-size: 14px; }
        .cta { display: inline-block; margin-top: 30px; padding: 12px 24px; font-size: 16px; border-radius: 6px; background: #22c55e; color: white; text-decoration: none; }
        .cta:hover { background: #16a34a; }
    </style>
</head>
<body>
    <h1>Trip Invitation</h1>
    <p><strong>%s</strong> has invited you to plan</p>
    <p class="trip-name">%s</p>
    <p><span class="role">%s</span></p>
    <a class="cta" href="%s">Sign in to respond</a>
</body>
</html>`, html.EscapeString(inviterName), html.EscapeString(tripName), html.EscapeString(role), signInURL)

	_ = c.HTML(200, page)
}

func (h *InvitationPageHandler) renderMessage(c *drift.Context, message string) {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Trip Invitation</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 400px; margin: 50px auto; padding: 20px; text-align: center; }
        h1 { color: #22c55e; }
        p { color: #666; }
    </style>
</head>
<body>
    <h1>%s</h1>
</body>
</html>`, html.EscapeString(message))

	_ = c.HTML(200, page)
}

func (h *InvitationPageHandler) renderError(c *drift.Context, message string) {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Error</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 400px; margin: 50px auto; padding: 20px; text-align: center; }
        h1 { color: #ef4444; }
        p { color: #666; }
    </style>
</head>
<body>
    <h1>Error</h1>
    <p>%s</p>
</body>
</html>`, html.EscapeString(message))

	_ = c.HTML(400, page)
}
