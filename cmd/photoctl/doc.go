/*
Photoctl is the maintenance companion of the bare-photos server.

It reads the same environment variables (and .env file) as the server.

Usage:

	photoctl warm [--quiet]
	photoctl favorites
	photoctl hash-password

warm generates every missing thumbnail ahead of time so the first browse of
a large library does not stall on conversions. favorites prints the stored
favorites, one path per line. hash-password reads a password without echo
and prints a bcrypt hash suitable for APP_BASIC_PASS.
*/
package main
