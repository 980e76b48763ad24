// Package git reads the revision of the repository a site is built from, so build
// reports can name the source commit.
package git
