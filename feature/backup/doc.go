// Package backup keeps copies of settings files in object storage.
//
// When storage is enabled, the settings store hands the on-disk content of a settings
// file to Service.Archive right before replacing it. Objects are named
//
//	<prefix>/<server directory name>/<UTC timestamp>-<uuid>-<file name>
//
// so a listing of one server's backups sorts chronologically. A failed backup is
// logged by the caller and never prevents the new settings from being saved.
package backup
