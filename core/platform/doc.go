// Package platform resolves host-dependent defaults.
//
// The only such default today is the server directory used when the command line
// omits one. The host (OS name, environment, home directory) is passed in as an Env
// so the resolution can be tested for every platform from any platform.
package platform
