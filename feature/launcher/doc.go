// Package launcher runs a Minecraft server jar under Java.
//
// Launching is split in two steps. Resolve validates the configuration, finds the
// server directory (argument, configured directory, or the platform default from
// core/platform) and checks the jar, producing a LaunchSpec. Launch starts the process
// described by a LaunchSpec with the server directory as working directory.
//
// # Command line
//
//	<java_path> -Xms<min_memory> -Xmx<max_memory> <jvm_flags...> -jar <jar> <server options...>
//
// Server options come from Options: --nogui unless GUI is set, the boolean world
// flags (--bonusChest, --demo, --eraseCache, --forceUpgrade, --initSettings,
// --safeMode, --singleplayer), and --port, --universe and --world when set.
// Options implements Get and Set over the names in OptionSchema so the settings
// editor can prompt for them like server settings.
//
// # Stream relay
//
// While the server runs, its stdout and stderr are copied to the caller's writers and
// the caller's input is copied to the server's stdin, each by its own goroutine. The
// server's stdin is closed when the caller's input ends.
//
// # Stopping
//
// Cancelling the context passed to Launch sends SIGTERM (the server saves and exits).
// A server still running StopTimeoutSeconds later is killed. On Windows the server is
// terminated straight away.
//
// # Errors
//
//   - *NotFoundError (ErrNotFound): the server directory or jar does not exist.
//   - *SpawnError (ErrSpawn): Java could not be started. Launches are never retried.
//   - *settings.ValidationError: invalid memory sizes, port or options.
package launcher
