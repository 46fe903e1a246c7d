// Package playback turns a resolved media URL into playback.
//
// The Resolver picks a path based on the stream format: progressive sources
// (mp4 and friends) and HLS on a capability with native HLS support are
// loaded into the playback Capability, while HLS on a capability without it
// is handed to the system browser and reported with a warning. The previous
// source is always detached first.
//
// MPV is the production Capability. It drives a single idle mpv process
// through its JSON IPC socket (a unix socket, or a named pipe on Windows).
package playback
