// Package logtail reads the tail of melulu's session log for the in-app log
// view.
//
// Read uses a ring buffer so only the last maxLines are kept in memory no
// matter how large the file has grown. Filter narrows the result to a minimum
// level by recognising the level column the text formatter writes (DEBU,
// INFO, WARN, ERRO, FATA); lines without one inherit the verdict of the line
// before them.
//
// Watch reports writes to the log file through fsnotify so the view can
// refresh when something is logged instead of polling.
package logtail
