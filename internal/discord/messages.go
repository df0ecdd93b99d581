package discord

// Friendly message constants for Discord responses
const (
	// Catalog
	MsgItemNotFound   = "❓ **Item Not Found**\nMaybe check the spelling?"
	MsgAmbiguousMatch = "🤔 **Which One?**\nThat name matches more than one item."

	// Crafting
	MsgMissingGlass       = "🥃 **No Glass**\nYou don't have the glass this drink calls for."
	MsgMissingIngredients = "🍋 **Missing Ingredients**\nYou can't mix this one yet."

	// Trading & inventory
	MsgNotEnoughItems  = "🎒 **Not Enough Items**\nYou don't have enough of that item."
	MsgUserNotFound    = "👤 **User Not Found**\nHave they rolled anything yet?"
	MsgInvalidArgument = "⚠️ **Can't Do That**"

	// Confirmations
	MsgOfferExpired  = "⏳ **Offer Expired**\nNobody answered in time."
	MsgOfferDeclined = "🚫 **Offer Declined**"

	MsgGenericError = "❌ Something went wrong."
)
