package mailinglist

import (
	"github.com/akeren/tablebook/internal/models"
	"github.com/akeren/tablebook/pkg/constants"
)

// SubscribeRequest binds both the HTML form and the JSON API.
type SubscribeRequest struct {
	Email string `form:"email" json:"email" binding:"required,email,max=255"`
}

type SubscriptionResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type SubscribedPayload struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

func ToEmailSignupModel(req *SubscribeRequest) *models.EmailSignup {
	if req == nil {
		return nil
	}
	return &models.EmailSignup{Email: req.Email}
}

func ToSubscriptionResponse(signup *models.EmailSignup) SubscriptionResponse {
	if signup == nil {
		return SubscriptionResponse{}
	}
	return SubscriptionResponse{
		ID:        signup.ID,
		Email:     signup.Email,
		CreatedAt: signup.CreatedAt.Format(constants.RFC3339DateTimeFormat),
	}
}
