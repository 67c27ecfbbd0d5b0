// Package services defines the [Catalog] interface for music streaming
// providers and implements it for the Spotify Web API and the Apple Music
// API.
//
// # Catalog Interface
//
// A Catalog exposes exactly the read operations the indexing pipeline
// needs: playlist metadata, paged playlist tracks, and batched audio
// features. Implementations accept a context on every network call and
// return typed structs.
//
// # Spotify Implementation
//
// [SpotifyService] authenticates with the client-credentials flow via
// [golang.org/x/oauth2/clientcredentials]; the resulting [http.Client]
// refreshes the token transparently. Playlist reads need no user consent,
// so there is no authorization-code callback.
//
// # Apple Music Implementation
//
// [AppleMusicService] sends a pre-generated developer token as a bearer
// header; Authenticate verifies it against the API's test endpoint.
// Apple Music exposes no audio-features endpoint, so its batch operation
// reports every track as featureless, which the enrichment stage already
// treats as a valid sparse result.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrAuthFailed] : token request rejected
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrPlaylistNotFound] : playlist ID not found (404)
//
// # API Mappings
//
// Provider JSON is converted to models types at the service boundary:
// playlist objects map to [models.PlaylistMetadata], page items map to
// [models.RawTrackEntry] (or a skip reason when the item is not an
// indexable track), and audio-features payloads map to
// [models.AudioFeatures] keyed by track ID.
package services
