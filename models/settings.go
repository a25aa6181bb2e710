package models

import "time"

// SiteSettings is a singleton document stored under the fixed id "site".
const SiteSettingsID = "site"

type GeneralSettings struct {
	SiteName     string `bson:"site_name" json:"site_name"`
	Tagline      string `bson:"tagline,omitempty" json:"tagline,omitempty"`
	ContactEmail string `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      string `bson:"address,omitempty" json:"address,omitempty"`
}

type SocialSettings struct {
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	YouTube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
}

type FeaturedSettings struct {
	EventID string `bson:"event_id,omitempty" json:"event_id,omitempty"`
	PostID  string `bson:"post_id,omitempty" json:"post_id,omitempty"`
}

type SiteSettings struct {
	ID        string           `bson:"_id" json:"-"`
	General   GeneralSettings  `bson:"general" json:"general"`
	Social    SocialSettings   `bson:"social" json:"social"`
	Featured  FeaturedSettings `bson:"featured" json:"featured"`
	UpdatedAt time.Time        `bson:"updated_at" json:"updated_at"`
}

// DefaultSiteSettings is what public pages render before an admin has
// saved anything.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		ID: SiteSettingsID,
		General: GeneralSettings{
			SiteName: "Astronomy Club",
		},
	}
}
