package wizard

import "fmt"

const (
	replyLoginPrompt = "Let's mint an NFT. First, log in with your avatar username, or send \"skip\" to mint without an account."

	replySecretPrompt = "Now send your password. It is used once for login and never stored."

	replyLoginFailed = "Login failed. Send your username to try again, or \"skip\" to continue without an account."

	replyAssetPrompt = "Send the artwork as a photo or image file, paste a token address or explorer link to wrap an existing asset, or send \"skip\" to use a placeholder image."

	replyAssetInvalid = "I need an image, a token address, an explorer link, or \"skip\". Try again."

	replyAssetUploadFailed = "I couldn't fetch that file from Telegram. Please send it again."

	replyImportNotFound = "I couldn't find metadata for that token. Paste a different address, send an image, or \"skip\"."

	replyImportFailed = "The metadata lookup failed, possibly a network hiccup. Please try again in a moment."

	replyTitlePrompt = "What should the NFT be called? (max 32 characters)"

	replySymbolPrompt = "Now a short symbol (max 10 characters, stored upper-case)."

	replyDescriptionPrompt = "Add a description, or send \"skip\" for none."

	replyRecipientPrompt = "Which wallet should receive the NFT? Paste the recipient address."

	replyRecipientTooShort = "That doesn't look like a wallet address (too short). Paste the full recipient address."

	replyWorking = "Minting now. This can take a minute while the transaction confirms..."

	replyNoSession = "No mint in progress."
)

func helpText(startCommand, cancelCommand string) string {
	return fmt.Sprintf(
		"I mint NFTs from this chat.\n/%s starts the wizard, /%s aborts it.\nDuring the wizard, answer each question, or send \"skip\" where offered.",
		startCommand, cancelCommand,
	)
}

func confirmPrompt(title, symbol, recipient, confirmToken string) string {
	return fmt.Sprintf(
		"Ready to mint:\n• Title: %s\n• Symbol: %s\n• Recipient: %s\nSend %q to mint, or /cancel to abort.",
		title, symbol, recipient, confirmToken,
	)
}

func importSummary(title, symbol string) string {
	return fmt.Sprintf(
		"Imported %q (%s) from the chain; title, symbol, and description are taken from the existing asset.\n%s",
		title, symbol, replyRecipientPrompt,
	)
}
