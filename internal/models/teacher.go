package models

import "time"

const (
	// IntroduceMinLength and IntroduceMaxLength bound the self-introduction text (inclusive)
	IntroduceMinLength = 100
	IntroduceMaxLength = 500

	// NicknameMaxLength bounds the optional public nickname
	NicknameMaxLength = 50

	// ExpertiseMaxLength bounds the expertise summary
	ExpertiseMaxLength = 255
)

// TeacherInfo is the one-to-one teaching profile attached to a user.
// Creating one promotes the owning user to teacher; the promotion is
// never reverted.
type TeacherInfo struct {
	ID        int64
	UserID    int64
	Expertise string
	Introduce string
	Nickname  string
	Schedule  string
	CreatedAt time.Time
}

// DisplayName returns the nickname if set, otherwise the given fallback
// (normally the owning user's username).
func (t *TeacherInfo) DisplayName(fallback string) string {
	if t.Nickname != "" {
		return t.Nickname
	}
	return fallback
}
