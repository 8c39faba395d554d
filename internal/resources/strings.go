package resources

// UI strings shown by the bot and served to the web tab. Kept in one
// bundle so the tab endpoints and the card renderers stay consistent.
const (
	WelcomeCardTitle    = "Welcome to Expert Finder"
	WelcomeCardContent  = "Find experts across your organization by skills, interests and schools, and keep your own profile up to date."
	MyProfileButtonText = "My profile"
	SearchButtonText    = "Search"
	TakeATourButtonText = "Take a tour"

	HelpCardContent    = "Here is what I can do. Try one of the commands below."
	SigninCardText     = "Please sign in to continue."
	SignInButtonText   = "Sign in"
	SignOutText        = "You have been signed out."
	NotLoginText       = "You are not signed in. Please sign in and try again."
	InvalidTenantText  = "This app is not available for your organization."
	ErrorMessageText   = "Something went wrong. Please try again later."
	FailedToUpdateText = "Your profile could not be updated. Please try again."

	EditProfileTitle      = "Edit profile"
	DetailsTitle          = "Details"
	SkillsTitle           = "Skills"
	InterestTitle         = "Interests"
	SchoolsTitle          = "Schools"
	AboutMeTitle          = "About me"
	FullNameTitle         = "Full name"
	NoneText              = "None"
	UpdateButtonText      = "Update"
	GoToProfileText       = "Go to profile"
	SearchTaskModuleTitle = "Search experts"
	SearchCardTitle       = "Search for experts"
	SearchCardContent     = "Open the search window to find people by skills, interests or schools."
	DefaultCardContentME  = "Type a keyword to search for experts."
	AboutMePlaceholder    = "Tell people about yourself"
	ListInputPlaceholder  = "Separate multiple values with ;"
)

// TabStrings is the bundle served to the web tab search page.
func TabStrings() map[string]string {
	return map[string]string{
		"searchTextBoxPlaceholder":             "Search by keyword",
		"initialSearchResultMessageHeaderText": "Search for experts",
		"initialSearchResultMessageBodyText":   "Type a keyword and pick the fields to search on.",
		"searchResultNoItemsText":              "No results found. Try a different keyword.",
		"skillsTitle":                          SkillsTitle,
		"interestTitle":                        InterestTitle,
		"schoolsTitle":                         SchoolsTitle,
		"viewButtonText":                       "View",
		"maxUserProfilesError":                 "You can share at most five profiles at a time.",
	}
}

// TabErrorStrings is the bundle served to the tab error page.
func TabErrorStrings() map[string]string {
	return map[string]string{
		"unauthorizedErrorMessage": "Sorry, your session has expired. Please refresh and sign in again.",
		"forbiddenErrorMessage":    "Sorry, you do not have permission to view this page.",
		"generalErrorMessage":      ErrorMessageText,
		"refreshLinkText":          "Refresh",
	}
}
