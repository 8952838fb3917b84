package discord

import (
	"context"
	"errors"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
)

// Friendly message constants for Discord responses
const (
	// Characters
	MsgCharacterNotFound = "❓ **Character Not Found**\nCheck the name or Lodestone ID and make sure the character is public."
	MsgNoPrimary         = "👤 **No Character Registered**\nUse `/character register` first, or pass a character."
	MsgCharacterExists   = "⚠️ **Already Registered**\nThat Lodestone ID is already registered."
	MsgInvalidLodestone  = "⚠️ **Invalid Lodestone ID**\nUse the number from your Lodestone profile URL."
	MsgInvalidExpansion  = "⚠️ **Unknown Expansion**\nTry one of: arr, hw, sb, shb, ew, dt."

	// Groups
	MsgGroupNotFound      = "❓ **Group Not Found**\nCreate it with `/group create`."
	MsgGroupExists        = "⚠️ **Group Exists**\nA group with that name already exists in this server."
	MsgAlreadyGroupMember = "⚠️ **Already In Group**\nThat character is already a member."
	MsgNotGroupMember     = "❓ **Not In Group**\nThat character is not a member of this group."
	MsgGroupPermission    = "🔒 **Not Allowed**\nOnly the member who created this group can change it."
	MsgDeleteNotConfirmed = "Group deletion cancelled. Type `confirm` in the confirm field to delete the group."

	// Catalog
	MsgInvalidKind         = "⚠️ **Unknown Type**\nChoose mounts or minions."
	MsgCollectibleNotFound = "❓ **Nothing Found**\nMaybe check the spelling?"

	// Upstream
	MsgUpstreamUnavailable = "🌩️ **Service Unavailable**\nFFXIV Collect or XIVAPI is not responding. Try again in a few minutes."
	MsgTimeout             = "⏳ **Timed Out**\nThat took too long. Try again later."

	MsgInvalidInput = "⚠️ **Invalid Input**"
	MsgGenericError = "❌ Something went wrong."
)

// formatFriendlyError maps a service error onto a message users can act on
func formatFriendlyError(err error) string {
	switch {
	case errors.Is(err, domain.ErrCharacterNotFound):
		return MsgCharacterNotFound
	case errors.Is(err, domain.ErrNoPrimaryCharacter):
		return MsgNoPrimary
	case errors.Is(err, domain.ErrCharacterExists):
		return MsgCharacterExists
	case errors.Is(err, domain.ErrInvalidLodestoneID):
		return MsgInvalidLodestone
	case errors.Is(err, domain.ErrInvalidExpansion):
		return MsgInvalidExpansion
	case errors.Is(err, domain.ErrGroupNotFound):
		return MsgGroupNotFound
	case errors.Is(err, domain.ErrGroupExists):
		return MsgGroupExists
	case errors.Is(err, domain.ErrAlreadyGroupMember):
		return MsgAlreadyGroupMember
	case errors.Is(err, domain.ErrNotGroupMember):
		return MsgNotGroupMember
	case errors.Is(err, domain.ErrGroupPermission):
		return MsgGroupPermission
	case errors.Is(err, domain.ErrInvalidKind):
		return MsgInvalidKind
	case errors.Is(err, domain.ErrCollectibleNotFound):
		return MsgCollectibleNotFound
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return MsgUpstreamUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return MsgTimeout
	case errors.Is(err, domain.ErrInvalidInput):
		return MsgInvalidInput + "\n" + err.Error()
	default:
		return MsgGenericError
	}
}
