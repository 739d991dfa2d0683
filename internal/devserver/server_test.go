package devserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/lapinstance/internal/config"
	"github.com/jon4hz/lapinstance/internal/database"
	"github.com/jon4hz/lapinstance/pkg/lapinstance"
	"github.com/stretchr/testify/suite"
)

type recordingNotifier struct {
	mu    sync.Mutex
	raids []lapinstance.Raid
	users [][]lapinstance.User
}

func (n *recordingNotifier) NotifyMissingSubscriptions(_ context.Context, raid lapinstance.Raid, users []lapinstance.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.raids = append(n.raids, raid)
	n.users = append(n.users, users)
	return nil
}

var fixedNow = time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)

type DevServerTestSuite struct {
	suite.Suite
	db       *database.Client
	server   *Server
	http     *httptest.Server
	client   *lapinstance.Client
	notifier *recordingNotifier
	ctx      context.Context
}

func (s *DevServerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *DevServerTestSuite) SetupTest() {
	s.ctx = context.Background()

	db, err := database.New(filepath.Join(s.T().TempDir(), "devserver.db"))
	s.Require().NoError(err)
	s.db = db

	cfg := &config.DevServerConfig{
		Listen:        "127.0.0.1:0",
		Session:       &config.SessionConfig{UserName: "Raidleader", DiscordID: "42", Roles: []string{"ADMIN", "USER"}},
		RosterEnabled: true,
	}
	s.notifier = &recordingNotifier{}
	s.server, err = New(s.ctx, cfg, db, WithNotifier(s.notifier), WithClock(func() time.Time { return fixedNow }))
	s.Require().NoError(err)

	s.http = httptest.NewServer(s.server.Handler())
	s.client, err = lapinstance.New(s.http.URL)
	s.Require().NoError(err)
}

func (s *DevServerTestSuite) TearDownTest() {
	s.http.Close()
	s.Require().NoError(s.db.Close())
}

func (s *DevServerTestSuite) statusCode(err error) int {
	var statusErr *lapinstance.StatusError
	s.Require().True(errors.As(err, &statusErr), "expected a status error, got %v", err)
	return statusErr.StatusCode
}

func (s *DevServerTestSuite) saveRaid(raidType lapinstance.RaidType, date time.Time) lapinstance.Raid {
	resp, err := s.client.Raids.Save(s.ctx, lapinstance.Raid{RaidType: raidType, Date: lapinstance.EpochMillis(date)})
	s.Require().NoError(err)
	return resp.Data
}

func (s *DevServerTestSuite) TestSessionAndSettings() {
	session, err := s.client.Session.CurrentUser(s.ctx)
	s.Require().NoError(err)
	s.Equal("Raidleader", session.Data.User.Name)
	s.Equal("42", session.Data.User.DiscordID)
	s.True(session.Data.IsAdmin())

	settings, err := s.client.ApplicationSettings.Get(s.ctx)
	s.Require().NoError(err)
	s.True(settings.Data.RoasterEnabled)
}

func (s *DevServerTestSuite) TestRaidLifecycle() {
	date := time.Date(2024, 3, 20, 19, 30, 0, 0, time.UTC)
	created := s.saveRaid(lapinstance.RaidTypeMoltenCore, date)
	s.NotZero(created.ID)
	s.Equal(lapinstance.RaidTypeMoltenCore, created.RaidType)
	s.True(date.Equal(created.Time()))
	s.NotEmpty(created.FormattedDate)

	created.Comment = "bring fire resist"
	updated, err := s.client.Raids.Save(s.ctx, created)
	s.Require().NoError(err)
	s.Equal(created.ID, updated.Data.ID)

	got, err := s.client.Raids.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("bring fire resist", got.Data.Comment)

	all, err := s.client.Raids.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all.Data, 1)

	s.Require().NoError(s.client.Raids.Delete(s.ctx, created.ID))

	_, err = s.client.Raids.Get(s.ctx, created.ID)
	s.Equal(http.StatusNotFound, s.statusCode(err))

	err = s.client.Raids.Delete(s.ctx, created.ID)
	s.Equal(http.StatusNotFound, s.statusCode(err))
}

func (s *DevServerTestSuite) createUser(name string) lapinstance.User {
	user, err := s.db.GetOrCreateUser(s.ctx, name, "")
	s.Require().NoError(err)
	return toUser(*user)
}

func (s *DevServerTestSuite) TestSaveRaidWithUnknownID() {
	_, err := s.client.Raids.Save(s.ctx, lapinstance.Raid{ID: 999, RaidType: lapinstance.RaidTypeOnyxia, Date: 1})
	s.Equal(http.StatusNotFound, s.statusCode(err))

	all, err := s.client.Raids.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(all.Data)
}

func (s *DevServerTestSuite) TestSaveCharacterWithUnknownID() {
	session, err := s.client.Session.CurrentUser(s.ctx)
	s.Require().NoError(err)
	me := session.Data.User

	_, err = s.client.Users.SaveCharacter(s.ctx, me.ID, lapinstance.UserCharacter{ID: 999, Name: "Grom", Spec: lapinstance.CharacterSpecWarriorTank})
	s.Equal(http.StatusNotFound, s.statusCode(err))

	mine, err := s.client.Users.FindCharacters(s.ctx, me.ID)
	s.Require().NoError(err)
	s.Empty(mine.Data)
}

func (s *DevServerTestSuite) TestSaveCharacterOfAnotherUser() {
	alice := s.createUser("Alice")
	bob := s.createUser("Bob")

	jaina, err := s.client.Users.SaveCharacter(s.ctx, alice.ID, lapinstance.UserCharacter{Name: "Jaina", Spec: lapinstance.CharacterSpecMage, Main: true})
	s.Require().NoError(err)

	_, err = s.client.Users.SaveCharacter(s.ctx, bob.ID, lapinstance.UserCharacter{ID: jaina.Data.ID, Name: "Jaina", Spec: lapinstance.CharacterSpecMage})
	s.Equal(http.StatusNotFound, s.statusCode(err))

	aliceChars, err := s.client.Users.FindCharacters(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Require().Len(aliceChars.Data, 1)
	s.Equal(alice.ID, aliceChars.Data[0].User.ID)
	s.True(aliceChars.Data[0].Main)

	bobChars, err := s.client.Users.FindCharacters(s.ctx, bob.ID)
	s.Require().NoError(err)
	s.Empty(bobChars.Data)

	renamed, err := s.client.Users.SaveCharacter(s.ctx, alice.ID, lapinstance.UserCharacter{ID: jaina.Data.ID, Name: "Jaina Proudmoore", Spec: lapinstance.CharacterSpecMage})
	s.Require().NoError(err)
	s.Equal(jaina.Data.ID, renamed.Data.ID)
	s.Equal("Jaina Proudmoore", renamed.Data.Name)
}

func (s *DevServerTestSuite) TestSubscriptionWithForeignCharacter() {
	raid := s.saveRaid(lapinstance.RaidTypeBlackwingLair, fixedNow.Add(24*time.Hour))
	alice := s.createUser("Alice")
	jaina, err := s.client.Users.SaveCharacter(s.ctx, alice.ID, lapinstance.UserCharacter{Name: "Jaina", Spec: lapinstance.CharacterSpecMage})
	s.Require().NoError(err)

	_, err = s.client.Raids.SaveSubscription(s.ctx, raid.ID, lapinstance.RaidSubscription{
		Response:  lapinstance.RaidSubscriptionResponsePresent,
		Character: &jaina.Data,
	})
	s.Equal(http.StatusBadRequest, s.statusCode(err))

	sub, err := s.client.Raids.SaveSubscription(s.ctx, raid.ID, lapinstance.RaidSubscription{
		Response:  lapinstance.RaidSubscriptionResponsePresent,
		Character: &jaina.Data,
		User:      alice,
	})
	s.Require().NoError(err)
	s.Equal(alice.ID, sub.Data.User.ID)
	s.Require().NotNil(sub.Data.Character)
	s.Equal(jaina.Data.ID, sub.Data.Character.ID)
}

func (s *DevServerTestSuite) TestSubscriptions() {
	raid := s.saveRaid(lapinstance.RaidTypeOnyxia, fixedNow.Add(48*time.Hour))
	session, err := s.client.Session.CurrentUser(s.ctx)
	s.Require().NoError(err)
	me := session.Data.User

	char, err := s.client.Users.SaveCharacter(s.ctx, me.ID, lapinstance.UserCharacter{
		Name: "Grom",
		Spec: lapinstance.CharacterSpecWarriorTank,
		Main: true,
	})
	s.Require().NoError(err)
	s.Equal(me.ID, char.Data.User.ID)

	missing, err := s.client.Raids.FindMissingSubscriptions(s.ctx, raid.ID)
	s.Require().NoError(err)
	s.Require().Len(missing.Data, 1)
	s.Equal(me.ID, missing.Data[0].ID)

	sub, err := s.client.Raids.SaveSubscription(s.ctx, raid.ID, lapinstance.RaidSubscription{
		Response:  lapinstance.RaidSubscriptionResponsePresent,
		Character: &char.Data,
	})
	s.Require().NoError(err)
	s.NotZero(sub.Data.ID)
	s.Equal(raid.ID, sub.Data.Raid.ID)
	s.Equal(me.ID, sub.Data.User.ID)
	s.Require().NotNil(sub.Data.Character)
	s.Equal("Grom", sub.Data.Character.Name)

	again, err := s.client.Raids.SaveSubscription(s.ctx, raid.ID, lapinstance.RaidSubscription{
		Response: lapinstance.RaidSubscriptionResponseLate,
		User:     me,
	})
	s.Require().NoError(err)
	s.Equal(sub.Data.ID, again.Data.ID)
	s.Equal(lapinstance.RaidSubscriptionResponseLate, again.Data.Response)

	byRaid, err := s.client.Raids.FindSubscriptions(s.ctx, raid.ID)
	s.Require().NoError(err)
	s.Len(byRaid.Data, 1)

	byUser, err := s.client.Users.FindSubscriptions(s.ctx, me.ID)
	s.Require().NoError(err)
	s.Len(byUser.Data, 1)

	missing, err = s.client.Raids.FindMissingSubscriptions(s.ctx, raid.ID)
	s.Require().NoError(err)
	s.Empty(missing.Data)
}

func (s *DevServerTestSuite) TestNotifyMissingSubscriptions() {
	raid := s.saveRaid(lapinstance.RaidTypeNaxxramas, fixedNow)
	users, err := s.client.Users.FindAll(s.ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.client.Raids.NotifyMissingSubscriptions(s.ctx, raid.ID, users.Data))
	s.Require().NoError(s.client.Raids.NotifyMissingSubscriptions(s.ctx, raid.ID, nil))

	s.Require().Len(s.notifier.raids, 2)
	s.Equal(raid.ID, s.notifier.raids[0].ID)
	s.Equal(users.Data, s.notifier.users[0])
	s.Empty(s.notifier.users[1])

	err = s.client.Raids.NotifyMissingSubscriptions(s.ctx, 999, nil)
	s.Equal(http.StatusNotFound, s.statusCode(err))
}

func (s *DevServerTestSuite) TestCharactersAndRoster() {
	session, err := s.client.Session.CurrentUser(s.ctx)
	s.Require().NoError(err)
	me := session.Data.User

	char, err := s.client.Users.SaveCharacter(s.ctx, me.ID, lapinstance.UserCharacter{Name: "Jaina", Spec: lapinstance.CharacterSpecMage})
	s.Require().NoError(err)

	all, err := s.client.UserCharacters.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all.Data, 1)

	mine, err := s.client.Users.FindCharacters(s.ctx, me.ID)
	s.Require().NoError(err)
	s.Equal(char.Data, mine.Data[0])

	member, err := s.client.Roster.Add(s.ctx, lapinstance.RosterMember{
		RaidType:      lapinstance.RaidTypeAhnQiraj40,
		UserCharacter: char.Data,
	})
	s.Require().NoError(err)
	s.NotZero(member.Data.ID)
	s.Equal("Jaina", member.Data.UserCharacter.Name)

	roster, err := s.client.Roster.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Len(roster.Data, 1)

	memberships, err := s.client.Users.FindRosterMemberships(s.ctx, me.ID)
	s.Require().NoError(err)
	s.Len(memberships.Data, 1)

	s.Require().NoError(s.client.Roster.Remove(s.ctx, member.Data))

	roster, err = s.client.Roster.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(roster.Data)

	err = s.client.Roster.Remove(s.ctx, member.Data)
	s.Equal(http.StatusNotFound, s.statusCode(err))

	_, err = s.client.Roster.Add(s.ctx, lapinstance.RosterMember{
		RaidType:      lapinstance.RaidTypeOnyxia,
		UserCharacter: lapinstance.UserCharacter{ID: 999, Spec: lapinstance.CharacterSpecMage},
	})
	s.Equal(http.StatusNotFound, s.statusCode(err))
}

func (s *DevServerTestSuite) TestUnknownUser() {
	_, err := s.client.Users.FindCharacters(s.ctx, 999)
	s.Equal(http.StatusNotFound, s.statusCode(err))
}

func (s *DevServerTestSuite) TestNextReset() {
	resp, err := s.client.RaidTypes.NextReset(s.ctx, lapinstance.RaidTypeMoltenCore)
	s.Require().NoError(err)

	want, err := NextReset(lapinstance.RaidTypeMoltenCore, fixedNow)
	s.Require().NoError(err)
	s.Equal(want.UnixMilli(), resp.Data)
	s.Greater(resp.Data, fixedNow.UnixMilli())
}

func (s *DevServerTestSuite) TestRejectsUnknownEnums() {
	for _, path := range []string{"/raidTypes/HOGGER/nextReset", "/raidTypes/molten_core/nextReset"} {
		resp, err := http.Get(s.http.URL + path)
		s.Require().NoError(err)
		resp.Body.Close() //nolint:errcheck
		s.Equal(http.StatusBadRequest, resp.StatusCode, path)
	}

	resp, err := http.Post(s.http.URL+"/raids", "application/json", strings.NewReader(`{"date":1,"raidType":"HOGGER"}`))
	s.Require().NoError(err)
	resp.Body.Close() //nolint:errcheck
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(s.http.URL + "/raids/abc")
	s.Require().NoError(err)
	resp.Body.Close() //nolint:errcheck
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *DevServerTestSuite) TestTransformAgainstServer() {
	s.saveRaid(lapinstance.RaidTypeOnyxia, fixedNow)
	s.saveRaid(lapinstance.RaidTypeZulGurub, fixedNow.Add(time.Hour))

	resp, err := s.client.Raids.FindAll(s.ctx, lapinstance.WithTransform(func(raids []lapinstance.Raid) []lapinstance.Raid {
		return raids[:1]
	}))
	s.Require().NoError(err)
	s.Len(resp.Data, 1)
	s.Require().NotNil(resp.Original)
	s.Len(*resp.Original, 2)
}

func TestDevServerTestSuite(t *testing.T) {
	suite.Run(t, new(DevServerTestSuite))
}
