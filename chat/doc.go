// Package chat contains the Twitch chat bot front end.
//
// The bot joins every channel in TWITCH_CHANNELS and answers
//
//	!sync <streamer> <clip or vod url>
//
// (alias !vod) with a timestamped link into <streamer>'s VOD that was live
// when the clip or VOD moment happened. Lookup failures are answered in chat
// with the error text; Twitch API failures get a generic retry message.
//
// Credentials: the IRC client requires a bot username and a user OAuth token
// with chat:read/chat:edit scopes (TWITCH_BOT_USERNAME, TWITCH_OAUTH_TOKEN).
// The Helix app token used for lookups is separate and comes from
// TWITCH_CLIENT_ID/TWITCH_CLIENT_SECRET.
package chat
