package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/lapinstance/internal/database"
	"github.com/jon4hz/lapinstance/pkg/lapinstance"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

var errBadRequest = errors.New("bad request")

// abortWithError maps storage and validation errors to status codes.
func (s *Server) abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, lapinstance.ErrInvalidEnum), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	default:
		s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func pathID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", errBadRequest, name, raw)
	}
	v, err := fromID(id)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return v, nil
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, lapinstance.ErrInvalidEnum) {
			return err
		}
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

// raid loads the raid named by the :id path parameter.
func (s *Server) raid(c *gin.Context) (*database.Raid, bool) {
	id, err := pathID(c, "id")
	if err != nil {
		s.abortWithError(c, err)
		return nil, false
	}
	raid, err := s.db.GetRaidByID(c.Request.Context(), id)
	if err != nil {
		s.abortWithError(c, err)
		return nil, false
	}
	return raid, true
}

// user loads the user named by the :id path parameter.
func (s *Server) user(c *gin.Context) (*database.User, bool) {
	id, err := pathID(c, "id")
	if err != nil {
		s.abortWithError(c, err)
		return nil, false
	}
	user, err := s.db.GetUserByID(c.Request.Context(), id)
	if err != nil {
		s.abortWithError(c, err)
		return nil, false
	}
	return user, true
}

func (s *Server) findAllRaids(c *gin.Context) {
	raids, err := s.db.GetRaids(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRaids(raids))
}

func (s *Server) saveRaid(c *gin.Context) {
	var body lapinstance.Raid
	if err := bindJSON(c, &body); err != nil {
		s.abortWithError(c, err)
		return
	}
	if err := body.Validate(); err != nil {
		s.abortWithError(c, err)
		return
	}
	raid, err := fromRaid(body)
	if err != nil {
		s.abortWithError(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	// ids are assigned by the database, an id in the body must name an existing raid
	if raid.ID != 0 {
		if _, err := s.db.GetRaidByID(c.Request.Context(), raid.ID); err != nil {
			s.abortWithError(c, err)
			return
		}
	}
	if err := s.db.SaveRaid(c.Request.Context(), &raid); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRaid(raid))
}

func (s *Server) getRaid(c *gin.Context) {
	raid, ok := s.raid(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toRaid(*raid))
}

func (s *Server) deleteRaid(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	if err := s.db.DeleteRaid(c.Request.Context(), id); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) findMissingSubscriptions(c *gin.Context) {
	raid, ok := s.raid(c)
	if !ok {
		return
	}
	users, err := s.db.GetUsersWithoutSubscription(c.Request.Context(), raid.ID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUsers(users))
}

func (s *Server) notifyMissingSubscriptions(c *gin.Context) {
	raid, ok := s.raid(c)
	if !ok {
		return
	}
	var users []lapinstance.User
	if err := bindJSON(c, &users); err != nil {
		s.abortWithError(c, err)
		return
	}
	if err := s.notifier.NotifyMissingSubscriptions(c.Request.Context(), toRaid(*raid), users); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) findRaidSubscriptions(c *gin.Context) {
	raid, ok := s.raid(c)
	if !ok {
		return
	}
	subs, err := s.db.GetSubscriptionsByRaid(c.Request.Context(), raid.ID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubscriptions(subs))
}

// saveRaidSubscription stores the answer for the raid in the path. The
// subscription is made for the session user unless the body names a user.
func (s *Server) saveRaidSubscription(c *gin.Context) {
	raid, ok := s.raid(c)
	if !ok {
		return
	}
	var body lapinstance.RaidSubscription
	if err := bindJSON(c, &body); err != nil {
		s.abortWithError(c, err)
		return
	}
	if err := body.Validate(); err != nil {
		s.abortWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	userID := body.User.ID
	if userID == 0 {
		userID = s.session.User.ID
	}
	uid, err := fromID(userID)
	if err != nil {
		s.abortWithError(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	if _, err := s.db.GetUserByID(ctx, uid); err != nil {
		s.abortWithError(c, err)
		return
	}

	sub := database.Subscription{
		RaidID:   raid.ID,
		UserID:   uid,
		Response: string(body.Response),
	}
	if body.Character != nil && body.Character.ID != 0 {
		cid, err := fromID(body.Character.ID)
		if err != nil {
			s.abortWithError(c, fmt.Errorf("%w: %w", errBadRequest, err))
			return
		}
		char, err := s.db.GetCharacterByID(ctx, cid)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		if char.UserID != uid {
			s.abortWithError(c, fmt.Errorf("%w: character %d does not belong to user %d", errBadRequest, cid, uid))
			return
		}
		sub.CharacterID = lo.ToPtr(cid)
	}

	if err := s.db.SaveSubscription(ctx, &sub); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubscription(sub))
}

func (s *Server) findAllUserCharacters(c *gin.Context) {
	chars, err := s.db.GetAllCharacters(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCharacters(chars))
}

func (s *Server) getApplicationSettings(c *gin.Context) {
	c.JSON(http.StatusOK, lapinstance.ApplicationSettings{RoasterEnabled: s.cfg.RosterEnabled})
}

func (s *Server) findAllUsers(c *gin.Context) {
	users, err := s.db.GetAllUsers(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUsers(users))
}

func (s *Server) findUserCharacters(c *gin.Context) {
	user, ok := s.user(c)
	if !ok {
		return
	}
	chars, err := s.db.GetCharactersByUser(c.Request.Context(), user.ID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCharacters(chars))
}

func (s *Server) saveUserCharacter(c *gin.Context) {
	user, ok := s.user(c)
	if !ok {
		return
	}
	var body lapinstance.UserCharacter
	if err := bindJSON(c, &body); err != nil {
		s.abortWithError(c, err)
		return
	}
	if err := body.Validate(); err != nil {
		s.abortWithError(c, err)
		return
	}
	id, err := fromID(body.ID)
	if err != nil {
		s.abortWithError(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	// an existing character can only be updated through its owner
	if id != 0 {
		existing, err := s.db.GetCharacterByID(c.Request.Context(), id)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		if existing.UserID != user.ID {
			s.abortWithError(c, fmt.Errorf("character %d of user %d: %w", id, user.ID, gorm.ErrRecordNotFound))
			return
		}
	}

	char := database.Character{
		ID:     id,
		Name:   body.Name,
		Spec:   string(body.Spec),
		Main:   body.Main,
		UserID: user.ID,
	}
	if err := s.db.SaveCharacter(c.Request.Context(), &char); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCharacter(char))
}

func (s *Server) findUserRosterMemberships(c *gin.Context) {
	user, ok := s.user(c)
	if !ok {
		return
	}
	members, err := s.db.GetRosterMembersByUser(c.Request.Context(), user.ID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRosterMembers(members))
}

func (s *Server) findUserSubscriptions(c *gin.Context) {
	user, ok := s.user(c)
	if !ok {
		return
	}
	subs, err := s.db.GetSubscriptionsByUser(c.Request.Context(), user.ID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubscriptions(subs))
}

func (s *Server) getCurrentUser(c *gin.Context) {
	c.JSON(http.StatusOK, s.session)
}

// nextReset answers with the next reset as a bare epoch millisecond number.
// Raid types are matched exactly, like on the wire.
func (s *Server) nextReset(c *gin.Context) {
	next, err := NextReset(lapinstance.RaidType(c.Param("raidType")), s.now())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, next.UnixMilli())
}

func (s *Server) findAllRosterMembers(c *gin.Context) {
	members, err := s.db.GetRosterMembers(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRosterMembers(members))
}

// bindRosterMember reads a roster member body and checks its character exists.
func (s *Server) bindRosterMember(c *gin.Context) (database.RosterMember, bool) {
	var body lapinstance.RosterMember
	if err := bindJSON(c, &body); err != nil {
		s.abortWithError(c, err)
		return database.RosterMember{}, false
	}
	if err := body.Validate(); err != nil {
		s.abortWithError(c, err)
		return database.RosterMember{}, false
	}
	id, err := fromID(body.ID)
	if err != nil {
		s.abortWithError(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return database.RosterMember{}, false
	}
	cid, err := fromID(body.UserCharacter.ID)
	if err != nil {
		s.abortWithError(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return database.RosterMember{}, false
	}
	return database.RosterMember{ID: id, RaidType: string(body.RaidType), CharacterID: cid}, true
}

func (s *Server) addRosterMember(c *gin.Context) {
	member, ok := s.bindRosterMember(c)
	if !ok {
		return
	}
	if _, err := s.db.GetCharacterByID(c.Request.Context(), member.CharacterID); err != nil {
		s.abortWithError(c, err)
		return
	}
	member.ID = 0
	if err := s.db.AddRosterMember(c.Request.Context(), &member); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRosterMember(member))
}

func (s *Server) removeRosterMember(c *gin.Context) {
	member, ok := s.bindRosterMember(c)
	if !ok {
		return
	}
	if err := s.db.RemoveRosterMember(c.Request.Context(), member); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
