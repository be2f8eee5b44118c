package models

// Preferences holds the user's UI preferences.
type Preferences struct {
	Theme         string `json:"theme" firestore:"theme"`
	Notifications bool   `json:"notifications" firestore:"notifications"`
	FavoriteGenre string `json:"favoriteGenre" firestore:"favoriteGenre"`
}

// UserProfile is stored at userProfiles/{uid} and always written with merge semantics.
type UserProfile struct {
	Username    string      `json:"username" firestore:"username"`
	ProfilePic  string      `json:"profilePic" firestore:"profilePic"`
	Preferences Preferences `json:"preferences" firestore:"preferences"`
	Email       string      `json:"email" firestore:"email"`
}

// DefaultProfile is used whenever no profile document exists yet.
func DefaultProfile() UserProfile {
	return UserProfile{
		Preferences: Preferences{Theme: "light"},
	}
}

// PreferencesPatch carries the preference fields a client chose to change.
type PreferencesPatch struct {
	Theme         *string `json:"theme,omitempty" binding:"omitempty,oneof=light dark"`
	Notifications *bool   `json:"notifications,omitempty"`
	FavoriteGenre *string `json:"favoriteGenre,omitempty" binding:"omitempty,max=64"`
}

// ProfilePatch is a partial profile update; nil fields are left untouched.
type ProfilePatch struct {
	Username    *string           `json:"username,omitempty" binding:"omitempty,max=64"`
	ProfilePic  *string           `json:"profilePic,omitempty" binding:"omitempty,max=2048"`
	Email       *string           `json:"email,omitempty" binding:"omitempty,email"`
	Preferences *PreferencesPatch `json:"preferences,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ProfilePatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields flattens the patch into the nested map written with firestore.MergeAll.
func (p ProfilePatch) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if p.Username != nil {
		fields["username"] = *p.Username
	}
	if p.ProfilePic != nil {
		fields["profilePic"] = *p.ProfilePic
	}
	if p.Email != nil {
		fields["email"] = *p.Email
	}
	if p.Preferences != nil {
		prefs := map[string]interface{}{}
		if p.Preferences.Theme != nil {
			prefs["theme"] = *p.Preferences.Theme
		}
		if p.Preferences.Notifications != nil {
			prefs["notifications"] = *p.Preferences.Notifications
		}
		if p.Preferences.FavoriteGenre != nil {
			prefs["favoriteGenre"] = *p.Preferences.FavoriteGenre
		}
		if len(prefs) > 0 {
			fields["preferences"] = prefs
		}
	}
	return fields
}

// Apply returns a copy of the profile with the patch merged in.
func (u UserProfile) Apply(p ProfilePatch) UserProfile {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.ProfilePic != nil {
		u.ProfilePic = *p.ProfilePic
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Preferences != nil {
		if p.Preferences.Theme != nil {
			u.Preferences.Theme = *p.Preferences.Theme
		}
		if p.Preferences.Notifications != nil {
			u.Preferences.Notifications = *p.Preferences.Notifications
		}
		if p.Preferences.FavoriteGenre != nil {
			u.Preferences.FavoriteGenre = *p.Preferences.FavoriteGenre
		}
	}
	return u
}
