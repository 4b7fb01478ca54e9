package store

import (
	"time"

	"github.com/topi314/club-directory/internal/omit"
	"github.com/topi314/club-directory/internal/xpgtype"
)

type Club struct {
	ID           int64     `db:"club_id" json:"id"`
	Slug         string    `db:"club_slug" json:"slug"`
	Name         string    `db:"club_name" json:"name"`
	Category     string    `db:"club_category" json:"category"`
	Description  string    `db:"club_description" json:"description"`
	MeetingTimes string    `db:"club_meeting_times" json:"meeting_times"`
	Location     string    `db:"club_location" json:"location"`
	Advisor      string    `db:"club_advisor" json:"advisor"`
	MemberCount  int       `db:"club_member_count" json:"member_count"`
	ImageURL     string    `db:"club_image_url" json:"image_url"`
	LogoURL      string    `db:"club_logo_url" json:"logo_url"`
	Mission      string    `db:"club_mission" json:"mission"`
	CreatedAt    time.Time `db:"club_created_at" json:"created_at"`
}

type Role string

const (
	RoleLeader Role = "leader"
	RoleMember Role = "member"
)

type Membership struct {
	ID       int64     `db:"club_member_id" json:"id"`
	UserID   string    `db:"club_member_user_id" json:"user_id"`
	ClubID   int64     `db:"club_member_club_id" json:"club_id"`
	Role     Role      `db:"club_member_role" json:"role"`
	JoinedAt time.Time `db:"club_member_joined_at" json:"joined_at"`
	User     *User     `db:"-" json:"user,omitempty"`
}

type User struct {
	ID          string `db:"user_id" json:"id"`
	Username    string `db:"user_username" json:"username"`
	DisplayName string `db:"user_display_name" json:"display_name"`
	AvatarURL   string `db:"user_avatar_url" json:"avatar_url"`
}

type RatingStats struct {
	Average      float64     `json:"average"`
	Count        int         `json:"count"`
	Distribution map[int]int `json:"distribution"`
}

type NotificationType string

const (
	NotificationTypeEvent        NotificationType = "event"
	NotificationTypeAnnouncement NotificationType = "announcement"
	NotificationTypeMembership   NotificationType = "membership"
	NotificationTypeReminder     NotificationType = "reminder"
	NotificationTypeSystem       NotificationType = "system"
)

// Notification belongs to one user. ReadAt is set if and only if Read is true.
type Notification struct {
	ID        string                       `db:"notification_id" json:"id"`
	UserID    string                       `db:"notification_user_id" json:"user_id"`
	Type      NotificationType             `db:"notification_type" json:"type"`
	Title     string                       `db:"notification_title" json:"title"`
	Message   string                       `db:"notification_message" json:"message"`
	Read      bool                         `db:"notification_read" json:"read"`
	ReadAt    *time.Time                   `db:"notification_read_at" json:"read_at"`
	ActionURL *string                      `db:"notification_action_url" json:"action_url"`
	Data      xpgtype.JSON[map[string]any] `db:"notification_data" json:"data"`
	CreatedAt time.Time                    `db:"notification_created_at" json:"created_at"`
}

type ReminderTiming string

const (
	ReminderNone    ReminderTiming = "none"
	ReminderOneHour ReminderTiming = "1_hour"
	ReminderOneDay  ReminderTiming = "1_day"
	ReminderOneWeek ReminderTiming = "1_week"
)

func (t ReminderTiming) Valid() bool {
	switch t {
	case ReminderNone, ReminderOneHour, ReminderOneDay, ReminderOneWeek:
		return true
	}
	return false
}

type Preferences struct {
	UserID             string         `db:"notification_preference_user_id" json:"user_id"`
	EmailNotifications bool           `db:"notification_preference_email" json:"email_notifications"`
	PushNotifications  bool           `db:"notification_preference_push" json:"push_notifications"`
	EventReminders     bool           `db:"notification_preference_event_reminders" json:"event_reminders"`
	ClubUpdates        bool           `db:"notification_preference_club_updates" json:"club_updates"`
	NewMembers         bool           `db:"notification_preference_new_members" json:"new_members"`
	Announcements      bool           `db:"notification_preference_announcements" json:"announcements"`
	ReminderTiming     ReminderTiming `db:"notification_preference_reminder_timing" json:"reminder_timing"`
	UpdatedAt          time.Time      `db:"notification_preference_updated_at" json:"updated_at"`
}

func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:             userID,
		EmailNotifications: true,
		PushNotifications:  true,
		EventReminders:     true,
		ClubUpdates:        true,
		NewMembers:         false,
		Announcements:      true,
		ReminderTiming:     ReminderOneDay,
	}
}

// PreferencesPatch holds only the toggles a user changed.
type PreferencesPatch struct {
	EmailNotifications omit.Omit[bool]           `json:"email_notifications,omitzero"`
	PushNotifications  omit.Omit[bool]           `json:"push_notifications,omitzero"`
	EventReminders     omit.Omit[bool]           `json:"event_reminders,omitzero"`
	ClubUpdates        omit.Omit[bool]           `json:"club_updates,omitzero"`
	NewMembers         omit.Omit[bool]           `json:"new_members,omitzero"`
	Announcements      omit.Omit[bool]           `json:"announcements,omitzero"`
	ReminderTiming     omit.Omit[ReminderTiming] `json:"reminder_timing,omitzero"`
}

func (p PreferencesPatch) IsEmpty() bool {
	return p.EmailNotifications.IsZero() &&
		p.PushNotifications.IsZero() &&
		p.EventReminders.IsZero() &&
		p.ClubUpdates.IsZero() &&
		p.NewMembers.IsZero() &&
		p.Announcements.IsZero() &&
		p.ReminderTiming.IsZero()
}

// Apply merges the patch into prefs.
func (p PreferencesPatch) Apply(prefs Preferences) Preferences {
	prefs.EmailNotifications = p.EmailNotifications.Or(prefs.EmailNotifications)
	prefs.PushNotifications = p.PushNotifications.Or(prefs.PushNotifications)
	prefs.EventReminders = p.EventReminders.Or(prefs.EventReminders)
	prefs.ClubUpdates = p.ClubUpdates.Or(prefs.ClubUpdates)
	prefs.NewMembers = p.NewMembers.Or(prefs.NewMembers)
	prefs.Announcements = p.Announcements.Or(prefs.Announcements)
	prefs.ReminderTiming = p.ReminderTiming.Or(prefs.ReminderTiming)
	return prefs
}

type Event struct {
	ID          int64      `db:"club_event_id" json:"id"`
	ClubID      int64      `db:"club_event_club_id" json:"club_id"`
	Title       string     `db:"club_event_title" json:"title"`
	Description string     `db:"club_event_description" json:"description"`
	Location    string     `db:"club_event_location" json:"location"`
	StartsAt    time.Time  `db:"club_event_starts_at" json:"starts_at"`
	EndsAt      *time.Time `db:"club_event_ends_at" json:"ends_at"`
}

type Session struct {
	ID        string    `db:"session_id"`
	UserID    string    `db:"session_user_id"`
	CreatedAt time.Time `db:"session_created_at"`
	ExpiresAt time.Time `db:"session_expires_at"`
}
