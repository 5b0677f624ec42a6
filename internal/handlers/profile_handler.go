package handlers

import (
	"net/http"
	"strconv"

	"github.com/conduitlabs/conduit/backend/internal/middleware"
	"github.com/conduitlabs/conduit/backend/internal/models"
	"github.com/conduitlabs/conduit/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// ProfileHandler handles HTTP requests for user profiles and follows
type ProfileHandler struct {
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(userRepo repositories.UserRepository, followRepo repositories.FollowRepository) *ProfileHandler {
	return &ProfileHandler{
		userRepository:   userRepo,
		followRepository: followRepo,
	}
}

// RegisterPublicProfileRoutes registers the anonymous-capable profile routes
func (h *ProfileHandler) RegisterPublicProfileRoutes(g *echo.Group) {
	g.GET("/profiles/:username", h.ShowProfile)
	g.GET("/profiles/:id/checkIsFollowed", h.CheckIsFollowed)
}

// RegisterProfileRoutes registers the viewer-required follow routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.POST("/profiles/:username/follow", h.FollowUser)
	g.DELETE("/profiles/:username/follow", h.UnfollowUser)
	g.GET("/followers", h.GetFollowers)
	g.GET("/followings", h.GetFollowings)
}

// ShowProfile retrieves a user profile by username
func (h *ProfileHandler) ShowProfile(c echo.Context) error {
	user, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// FollowUser follows a user; following twice is a no-op
func (h *ProfileHandler) FollowUser(c echo.Context) error {
	viewerID := middleware.ViewerID(c)

	target, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		return httpError(err)
	}

	if err := h.followRepository.CreateFollow(viewerID, target.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully followed user"})
}

// UnfollowUser unfollows a user; unfollowing a non-follow is a no-op
func (h *ProfileHandler) UnfollowUser(c echo.Context) error {
	viewerID := middleware.ViewerID(c)

	target, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		return httpError(err)
	}

	if err := h.followRepository.DeleteFollow(viewerID, target.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User unfollowed successfully!"})
}

// CheckIsFollowed reports whether the viewer follows the given user
func (h *ProfileHandler) CheckIsFollowed(c echo.Context) error {
	viewerID := middleware.ViewerID(c)

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "user id must be an integer")
	}

	isFollowed := false
	if viewerID != 0 {
		isFollowed, err = h.followRepository.IsFollowing(viewerID, uint(targetID))
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"isFollowed": isFollowed})
}

// GetFollowers lists the users following the viewer
func (h *ProfileHandler) GetFollowers(c echo.Context) error {
	users, err := h.followRepository.GetFollowers(middleware.ViewerID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toCompactList(users))
}

// GetFollowings lists the users the viewer follows
func (h *ProfileHandler) GetFollowings(c echo.Context) error {
	users, err := h.followRepository.GetFollowing(middleware.ViewerID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toCompactList(users))
}

func toCompactList(users []models.User) []models.UserCompact {
	compacts := make([]models.UserCompact, len(users))
	for i := range users {
		compacts[i] = users[i].ToCompact()
	}
	return compacts
}
