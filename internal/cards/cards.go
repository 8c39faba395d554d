// Package cards maps domain records to displayable card payloads. All
// functions here are pure; no I/O and no state.
package cards

import (
	"fmt"

	"expert-finder/internal/domain/dto"
	"expert-finder/internal/domain/entities"
	"expert-finder/internal/resources"
	"expert-finder/internal/util"
)

// Base URL for the profile deep link on detail cards.
const goToProfileURL = "https://delve.office.com/"

// MyProfileCard renders the signed-in user's profile with an edit
// action carrying the card id used to correlate the later in-place
// update.
func MyProfileCard(profile *entities.UserProfile, cardID string) dto.Attachment {
	skills := util.JoinList(profile.Skills, resources.NoneText)
	interests := util.JoinList(profile.Interests, resources.NoneText)
	schools := util.JoinList(profile.Schools, resources.NoneText)

	details := newAdaptiveCard(
		[]map[string]any{
			headingBlock(resources.SkillsTitle),
			subtleBlock(skills),
			headingBlock(resources.InterestTitle),
			subtleBlock(interests),
			headingBlock(resources.SchoolsTitle),
			subtleBlock(schools),
		},
		[]map[string]any{
			openURLAction(resources.GoToProfileText, fmt.Sprintf("%s?u=%s&v=profiledetails", goToProfileURL, profile.ID)),
		},
	)

	card := newAdaptiveCard(
		[]map[string]any{
			headingBlock(profile.DisplayName),
			subtleBlock(profile.JobTitle),
			textBlock(profile.AboutMe),
		},
		[]map[string]any{
			fetchAction(resources.EditProfileTitle, dto.CommandMyProfile, cardID),
			{
				"type":  "Action.ShowCard",
				"title": resources.DetailsTitle,
				"card":  details,
			},
		},
	)
	return adaptiveAttachment(card)
}

// EmptyProfileCard is the affordance rendered when the directory has
// no profile for the user yet.
func EmptyProfileCard(cardID string) dto.Attachment {
	return MyProfileCard(&entities.UserProfile{
		AboutMe: resources.NoneText,
	}, cardID)
}

// EditProfileCard renders the task-module form pre-filled with the
// current profile values as delimiter-joined strings.
func EditProfileCard(profile *entities.UserProfile, cardID string) dto.Attachment {
	card := newAdaptiveCard(
		[]map[string]any{
			subtleBlock(resources.FullNameTitle),
			textBlock(profile.DisplayName),
			subtleBlock(resources.AboutMeTitle),
			textInput("aboutMe", profile.AboutMe, resources.AboutMePlaceholder, true),
			subtleBlock(resources.SkillsTitle),
			textInput("skills", util.JoinList(profile.Skills, ""), resources.ListInputPlaceholder, false),
			subtleBlock(resources.InterestTitle),
			textInput("interests", util.JoinList(profile.Interests, ""), resources.ListInputPlaceholder, false),
			subtleBlock(resources.SchoolsTitle),
			textInput("schools", util.JoinList(profile.Schools, ""), resources.ListInputPlaceholder, false),
		},
		[]map[string]any{
			{
				"type":  "Action.Submit",
				"title": resources.UpdateButtonText,
				"data": map[string]any{
					"command":         dto.CommandMyProfile,
					"MyProfileCardId": cardID,
				},
			},
		},
	)
	return adaptiveAttachment(card)
}

// SearchCard is the entry card that opens the search task module.
func SearchCard() dto.Attachment {
	card := newAdaptiveCard(
		[]map[string]any{
			headingBlock(resources.SearchCardTitle),
			textBlock(resources.SearchCardContent),
		},
		[]map[string]any{
			fetchAction(resources.SearchButtonText, dto.CommandSearch, ""),
		},
	)
	return adaptiveAttachment(card)
}

// HelpCard lists the two known commands. Sent whenever input is not
// recognized.
func HelpCard() dto.Attachment {
	card := newAdaptiveCard(
		[]map[string]any{
			textBlock(resources.HelpCardContent),
		},
		[]map[string]any{
			messageBackAction(resources.MyProfileButtonText, dto.CommandMyProfile),
			messageBackAction(resources.SearchButtonText, dto.CommandSearch),
		},
	)
	return adaptiveAttachment(card)
}

// WelcomeCard greets the user the first time the bot is added.
func WelcomeCard(appBaseURL string) dto.Attachment {
	card := newAdaptiveCard(
		[]map[string]any{
			headingBlock(resources.WelcomeCardTitle),
			textBlock(resources.WelcomeCardContent),
		},
		[]map[string]any{
			messageBackAction(resources.MyProfileButtonText, dto.CommandMyProfile),
			messageBackAction(resources.SearchButtonText, dto.CommandSearch),
			openURLAction(resources.TakeATourButtonText, appBaseURL+"/tour"),
		},
	)
	return adaptiveAttachment(card)
}

// SigninCard prompts the user to complete sign-in out-of-band.
func SigninCard(signInLink string) dto.Attachment {
	return dto.Attachment{
		ContentType: "application/vnd.microsoft.card.signin",
		Content: map[string]any{
			"text": resources.SigninCardText,
			"buttons": []map[string]any{
				{
					"type":  "signin",
					"title": resources.SignInButtonText,
					"value": signInLink,
				},
			},
		},
	}
}

// UserDetailCard renders one directory search result as a shareable
// profile card.
func UserDetailCard(result entities.ProfileSearchResult) dto.Attachment {
	skills := result.Skills
	if skills == "" {
		skills = resources.NoneText
	}
	interests := result.Interests
	if interests == "" {
		interests = resources.NoneText
	}
	schools := result.Schools
	if schools == "" {
		schools = resources.NoneText
	}

	card := newAdaptiveCard(
		[]map[string]any{
			headingBlock(result.PreferredName),
			subtleBlock(result.JobTitle),
			textBlock(result.AboutMe),
			headingBlock(resources.SkillsTitle),
			subtleBlock(skills),
			headingBlock(resources.InterestTitle),
			subtleBlock(interests),
			headingBlock(resources.SchoolsTitle),
			subtleBlock(schools),
		},
		[]map[string]any{
			openURLAction(resources.GoToProfileText, result.Path),
		},
	)
	return adaptiveAttachment(card)
}

// MessagingExtensionCards builds one preview/detail pair per matching
// record for the compose extension result list. The preview surfaces
// the field the query ran against.
func MessagingExtensionCards(results []entities.ProfileSearchResult, commandID string) []dto.MessagingExtensionAttachment {
	attachments := make([]dto.MessagingExtensionAttachment, 0, len(results))
	for _, result := range results {
		subtitle := result.Skills
		switch commandID {
		case "interests":
			subtitle = result.Interests
		case "schools":
			subtitle = result.Schools
		}

		preview := dto.Attachment{
			ContentType: ThumbnailCardContentType,
			Content: map[string]any{
				"title":    result.PreferredName,
				"subtitle": result.JobTitle,
				"text":     subtitle,
			},
		}
		attachments = append(attachments, dto.MessagingExtensionAttachment{
			Attachment: UserDetailCard(result),
			Preview:    &preview,
		})
	}
	return attachments
}
