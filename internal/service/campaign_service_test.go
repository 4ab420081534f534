package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/campaignflow/campaign-api/internal/models"
	"github.com/campaignflow/campaign-api/internal/transfer"
)

type fakeCampaignRepo struct {
	campaigns map[int64]*models.Campaign
	removed   []int64
}

func (r *fakeCampaignRepo) GetByID(ctx context.Context, id int64) (*models.Campaign, bool, error) {
	c, ok := r.campaigns[id]
	if !ok {
		return nil, false, nil
	}
	copied := *c
	return &copied, true, nil
}

func (r *fakeCampaignRepo) Create(ctx context.Context, tx *sql.Tx, campaign *models.Campaign) (int64, error) {
	id := int64(len(r.campaigns) + 1)
	campaign.ID = id
	r.campaigns[id] = campaign
	return id, nil
}

func (r *fakeCampaignRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.Campaign, error) {
	var out []*models.Campaign
	for _, c := range r.campaigns {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCampaignRepo) Update(ctx context.Context, campaign *models.Campaign) error {
	r.campaigns[campaign.ID] = campaign
	return nil
}

func (r *fakeCampaignRepo) Remove(ctx context.Context, id int64) error {
	delete(r.campaigns, id)
	r.removed = append(r.removed, id)
	return nil
}

type memberKey struct {
	campaignID int64
	userID     int64
}

type fakeMembershipRepo struct {
	roles map[memberKey]string
}

func (r *fakeMembershipRepo) GetRole(ctx context.Context, campaignID, userID int64) (string, bool, error) {
	role, ok := r.roles[memberKey{campaignID, userID}]
	return role, ok, nil
}

func (r *fakeMembershipRepo) Create(ctx context.Context, tx *sql.Tx, member *models.CampaignMember) error {
	r.roles[memberKey{member.CampaignID, member.UserID}] = member.Role
	return nil
}

func (r *fakeMembershipRepo) ListByCampaign(ctx context.Context, campaignID int64) ([]*models.CampaignMember, error) {
	var out []*models.CampaignMember
	for k, role := range r.roles {
		if k.campaignID == campaignID {
			out = append(out, &models.CampaignMember{CampaignID: k.campaignID, UserID: k.userID, Role: role})
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) Remove(ctx context.Context, campaignID, userID int64) error {
	delete(r.roles, memberKey{campaignID, userID})
	return nil
}

type fakeUserRepo struct {
	byEmail map[string]*models.User
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, true, nil
		}
	}
	return nil, false, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, false, nil
	}
	return u, true, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, tx *sql.Tx, user *models.User) (int64, error) {
	r.byEmail[user.Email] = user
	return user.ID, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error { return nil }

func (r *fakeUserRepo) Remove(ctx context.Context, id int64) error { return nil }

type fakeNoteRepo struct {
	created []*models.Notification
}

func (r *fakeNoteRepo) Create(ctx context.Context, n *models.Notification) (int64, error) {
	r.created = append(r.created, n)
	return int64(len(r.created)), nil
}

func (r *fakeNoteRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.Notification, error) {
	return r.created, nil
}

func (r *fakeNoteRepo) MarkRead(ctx context.Context, id, userID int64) error { return nil }

const (
	ownerID     = int64(1)
	adminID     = int64(2)
	memberID    = int64(3)
	outsiderID  = int64(9)
	privateCamp = int64(10)
	publicCamp  = int64(20)
)

func newCampaignEnv() (CampaignService, *fakeCampaignRepo, *fakeMembershipRepo, *fakeNoteRepo) {
	cr := &fakeCampaignRepo{campaigns: map[int64]*models.Campaign{
		privateCamp: {ID: privateCamp, OwnerID: ownerID, Title: "Q3 launch", Visibility: models.VisibilityPrivate},
		publicCamp:  {ID: publicCamp, OwnerID: ownerID, Title: "Open beta", Visibility: models.VisibilityPublic},
	}}
	mr := &fakeMembershipRepo{roles: map[memberKey]string{
		{privateCamp, ownerID}:  models.RoleOwner,
		{privateCamp, adminID}:  models.RoleAdmin,
		{privateCamp, memberID}: models.RoleMember,
		{publicCamp, ownerID}:   models.RoleOwner,
	}}
	ur := &fakeUserRepo{byEmail: map[string]*models.User{
		"new@example.com": {ID: 4, Email: "new@example.com"},
	}}
	nr := &fakeNoteRepo{}
	return NewCampaignService(nil, cr, mr, ur, nr), cr, mr, nr
}

func TestCampaignInfoVisibility(t *testing.T) {
	svc, _, _, _ := newCampaignEnv()
	ctx := context.Background()

	if _, err := svc.CampaignInfo(ctx, privateCamp, outsiderID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("outsider reading private campaign: err = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.CampaignInfo(ctx, privateCamp, memberID); err != nil {
		t.Errorf("member reading private campaign: %v", err)
	}
	if _, err := svc.CampaignInfo(ctx, publicCamp, outsiderID); err != nil {
		t.Errorf("outsider reading public campaign: %v", err)
	}
	if _, err := svc.CampaignInfo(ctx, 999, ownerID); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown campaign: err = %v, want ErrNotFound", err)
	}
}

func TestUpdateCampaignNeedsOwnerOrAdmin(t *testing.T) {
	svc, cr, _, _ := newCampaignEnv()
	ctx := context.Background()
	update := &transfer.CampaignUpdate{ID: privateCamp, Title: "Q3 launch v2", Visibility: models.VisibilityPrivate}

	if err := svc.Update(ctx, memberID, update); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("plain member updating: err = %v, want ErrUnauthorized", err)
	}
	if err := svc.Update(ctx, adminID, update); err != nil {
		t.Errorf("admin updating: %v", err)
	}
	if got := cr.campaigns[privateCamp].Title; got != "Q3 launch v2" {
		t.Errorf("title = %q, want updated", got)
	}
}

func TestRemoveCampaignOwnerOnly(t *testing.T) {
	svc, cr, _, _ := newCampaignEnv()
	ctx := context.Background()

	if err := svc.Remove(ctx, adminID, privateCamp); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("admin removing campaign: err = %v, want ErrUnauthorized", err)
	}
	if err := svc.Remove(ctx, ownerID, privateCamp); err != nil {
		t.Errorf("owner removing campaign: %v", err)
	}
	if len(cr.removed) != 1 || cr.removed[0] != privateCamp {
		t.Errorf("removed = %v, want [%d]", cr.removed, privateCamp)
	}
}

func TestAddMember(t *testing.T) {
	svc, _, mr, nr := newCampaignEnv()
	ctx := context.Background()
	add := &transfer.MemberAddition{CampaignID: privateCamp, Email: "new@example.com", Role: models.RoleMember}

	if err := svc.AddMember(ctx, memberID, add); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("plain member adding: err = %v, want ErrUnauthorized", err)
	}
	if err := svc.AddMember(ctx, adminID, add); err != nil {
		t.Fatalf("admin adding: %v", err)
	}
	if role := mr.roles[memberKey{privateCamp, 4}]; role != models.RoleMember {
		t.Errorf("new member role = %q, want member", role)
	}
	if len(nr.created) != 1 || nr.created[0].Kind != models.NotificationMemberAdded {
		t.Errorf("notifications = %+v, want one member_added", nr.created)
	}

	unknown := &transfer.MemberAddition{CampaignID: privateCamp, Email: "nobody@example.com", Role: models.RoleMember}
	if err := svc.AddMember(ctx, adminID, unknown); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown email: err = %v, want ErrNotFound", err)
	}
}

func TestRemoveMemberKeepsOwnerRow(t *testing.T) {
	svc, _, mr, _ := newCampaignEnv()
	ctx := context.Background()

	if err := svc.RemoveMember(ctx, ownerID, &transfer.MemberRemoval{CampaignID: privateCamp, UserID: ownerID}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("removing owner row: err = %v, want ErrUnauthorized", err)
	}
	if err := svc.RemoveMember(ctx, ownerID, &transfer.MemberRemoval{CampaignID: privateCamp, UserID: memberID}); err != nil {
		t.Fatalf("removing member: %v", err)
	}
	if _, stillThere := mr.roles[memberKey{privateCamp, memberID}]; stillThere {
		t.Error("member row should be gone")
	}
}

func TestListMembersFollowsReadRule(t *testing.T) {
	svc, _, _, _ := newCampaignEnv()
	ctx := context.Background()

	if _, err := svc.ListMembers(ctx, privateCamp, outsiderID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("outsider listing members: err = %v, want ErrUnauthorized", err)
	}
	members, err := svc.ListMembers(ctx, privateCamp, memberID)
	if err != nil {
		t.Fatalf("member listing members: %v", err)
	}
	if len(members) != 3 {
		t.Errorf("got %d members, want 3", len(members))
	}
}
