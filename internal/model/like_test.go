package model

import "testing"

// いいね主体の解決を検証。スタッフIDがあればIPより優先される。
func TestNewLikeIdentity(t *testing.T) {
	tests := []struct {
		name        string
		userID      string
		ipAddress   string
		wantUserID  string
		wantIP      string
		wantAnonymous bool
	}{
		{"スタッフ優先", "staff-1", "1.2.3.4", "staff-1", "", false},
		{"匿名訪問者", "", "1.2.3.4", "", "1.2.3.4", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := NewLikeIdentity(tt.userID, tt.ipAddress)
			if identity.UserID != tt.wantUserID {
				t.Errorf("UserID = %q, want %q", identity.UserID, tt.wantUserID)
			}
			if identity.IPAddress != tt.wantIP {
				t.Errorf("IPAddress = %q, want %q", identity.IPAddress, tt.wantIP)
			}
			if identity.IsAnonymous() != tt.wantAnonymous {
				t.Errorf("IsAnonymous() = %v, want %v", identity.IsAnonymous(), tt.wantAnonymous)
			}
		})
	}
}
