package waitlist

import (
	"strings"

	"github.com/feastline/prelaunch/internal/upstream"
)

type JoinWaitlistRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=255"`
	Email          string `json:"email" binding:"required,email,max=255"`
	RestaurantName string `json:"restaurantName" binding:"omitempty,max=255"`
}

type JoinWaitlistResponse struct {
	Message string `json:"message"`
}

// ========================================
// Mappers
// ========================================

func ToUpstreamEntry(req *JoinWaitlistRequest) upstream.Entry {
	if req == nil {
		return upstream.Entry{}
	}
	return upstream.Entry{
		Email:          strings.TrimSpace(req.Email),
		Name:           strings.TrimSpace(req.Name),
		RestaurantName: strings.TrimSpace(req.RestaurantName),
	}
}
