package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/database"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/models"
)

// ContextKeyTeam and ContextKeyMembership are the gin context keys set
// by RequireTeamAccess.
const (
	ContextKeyTeam       = "team"
	ContextKeyMembership = "team_membership"
)

// RequireTeamAccess checks that the user holds an accepted membership
// in the team named by the :id parameter. A missing team and a missing
// or non-accepted membership both answer 404, so outsiders cannot
// probe which teams exist.
func RequireTeamAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		teamIDStr := c.Param("id")
		teamID, err := strconv.ParseUint(teamIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid team ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var team models.Team
		if err := database.GetDB().First(&team, teamID).Error; err != nil {
			apierrors.NotFound(c, "Team not found")
			c.Abort()
			return
		}

		var membership models.TeamMembership
		err = database.GetDB().
			Where("team_id = ? AND user_id = ?", teamID, userID).
			First(&membership).Error
		if err != nil || !membership.IsAccepted() {
			// 404 instead of 403 to avoid leaking team existence
			apierrors.NotFound(c, "Team not found")
			c.Abort()
			return
		}

		c.Set(ContextKeyTeam, team)
		c.Set(ContextKeyMembership, membership)
		c.Next()
	}
}

// GetMembership retrieves the membership stored by RequireTeamAccess.
func GetMembership(c *gin.Context) (models.TeamMembership, bool) {
	value, exists := c.Get(ContextKeyMembership)
	if !exists {
		return models.TeamMembership{}, false
	}
	membership, ok := value.(models.TeamMembership)
	return membership, ok
}
