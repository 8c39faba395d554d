package entities

// UserProfile holds the directory fields the bot reads and edits for
// the signed-in user. List fields are structured here and `;`-joined
// only at the card/tab boundary.
type UserProfile struct {
	ID          string   `json:"id,omitempty" bson:"id,omitempty"`
	DisplayName string   `json:"displayName,omitempty" bson:"display_name,omitempty"`
	JobTitle    string   `json:"jobTitle,omitempty" bson:"job_title,omitempty"`
	AboutMe     string   `json:"aboutMe" bson:"about_me"`
	Skills      []string `json:"skills" bson:"skills"`
	Interests   []string `json:"interests" bson:"interests"`
	Schools     []string `json:"schools" bson:"schools"`
}

// ProfileSearchResult is one directory entry returned by the
// SharePoint search service. All values come straight from result
// cells, so list-valued fields stay in their delimited string form.
type ProfileSearchResult struct {
	AboutMe       string `json:"aboutMe"`
	Interests     string `json:"interests"`
	JobTitle      string `json:"jobTitle"`
	PreferredName string `json:"preferredName"`
	Schools       string `json:"schools"`
	Skills        string `json:"skills"`
	WorkEmail     string `json:"workEmail"`
	Path          string `json:"path"`
}
