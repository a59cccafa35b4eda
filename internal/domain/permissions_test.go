package domain

import "testing"

func TestAction_Granted_MapsFlags(t *testing.T) {
	cases := []struct {
		action Action
		grants ModeratorPermissions
	}{
		{ActionInviteToMic, ModeratorPermissions{CanInviteToMic: true}},
		{ActionRemoveFromMic, ModeratorPermissions{CanRemoveFromMic: true}},
		{ActionLockMic, ModeratorPermissions{CanLockMic: true}},
		{ActionMuteMic, ModeratorPermissions{CanMuteMic: true}},
		{ActionKickUser, ModeratorPermissions{CanKickUsers: true}},
		{ActionBanUser, ModeratorPermissions{CanBanUsers: true}},
		{ActionUnbanUser, ModeratorPermissions{CanBanUsers: true}},
		{ActionMuteUser, ModeratorPermissions{CanMuteUsers: true}},
		{ActionManageModerators, ModeratorPermissions{CanManageModerators: true}},
	}

	for _, tc := range cases {
		p := tc.grants
		p.IsActive = true
		if !tc.action.Granted(&p) {
			t.Fatalf("%s: expected granted", tc.action)
		}

		// без соответствующего флага не проходит
		empty := ModeratorPermissions{IsActive: true}
		if tc.action.Granted(&empty) {
			t.Fatalf("%s: expected denied without flag", tc.action)
		}
	}
}

func TestAction_Granted_NilOrInactive(t *testing.T) {
	if ActionKickUser.Granted(nil) {
		t.Fatal("nil grants must deny")
	}

	p := &ModeratorPermissions{CanKickUsers: true, IsActive: false}
	if ActionKickUser.Granted(p) {
		t.Fatal("inactive grants must deny")
	}
}

func TestAction_Granted_ViewsFollowAnyGrant(t *testing.T) {
	views := []Action{ActionViewEvents, ActionViewMicControl, ActionViewBans}

	holder := &ModeratorPermissions{CanMuteMic: true, IsActive: true}
	for _, v := range views {
		if !v.Granted(holder) {
			t.Fatalf("%s: any active grant must open view access", v)
		}
	}

	nobody := &ModeratorPermissions{IsActive: true}
	for _, v := range views {
		if v.Granted(nobody) {
			t.Fatalf("%s: no flags must deny view access", v)
		}
	}
}

func TestAction_Granted_ChangeMicNeverGranted(t *testing.T) {
	all := &ModeratorPermissions{
		CanInviteToMic: true, CanRemoveFromMic: true, CanLockMic: true,
		CanMuteMic: true, CanKickUsers: true, CanBanUsers: true,
		CanMuteUsers: true, CanManageModerators: true, IsActive: true,
	}
	if ActionChangeMic.Granted(all) {
		t.Fatal("change_mic is owner/manager only, grants must not cover it")
	}
}
