package identity

// Kind names the sort of remote object an id refers to.
type Kind string

const (
	KindUser         Kind = "user"
	KindChannel      Kind = "channel"
	KindGroup        Kind = "group"
	KindConversation Kind = "conversation"
)

// UserIdentity holds the descriptive fields of a Slack user.
type UserIdentity struct {
	ID                    string `json:"-"`
	Name                  string `json:"name"`
	RealName              string `json:"realname"`
	Title                 string `json:"title"`
	ProfileRealName       string `json:"real_name"`
	RealNameNormalized    string `json:"real_name_normalized"`
	DisplayName           string `json:"display_name"`
	DisplayNameNormalized string `json:"display_name_normalized"`
}

// BestName picks the most descriptive non-empty name, falling back to the
// account name.
func (u UserIdentity) BestName() string {
	for _, candidate := range []string{
		u.RealNameNormalized,
		u.RealName,
		u.ProfileRealName,
		u.DisplayName,
	} {
		if candidate != "" {
			return candidate
		}
	}
	return u.Name
}

// ChannelIdentity holds the descriptive fields of a public channel or a
// private group.
type ChannelIdentity struct {
	ID             string `json:"-"`
	Name           string `json:"name"`
	NameNormalized string `json:"name_normalized"`
	Purpose        string `json:"purpose"`
}

// CachedIdentity is one resolved entry. Exactly one of User, Channel or
// Members is set, according to Kind.
type CachedIdentity struct {
	Kind    Kind
	ID      string
	User    *UserIdentity
	Channel *ChannelIdentity
	Members []string
}
