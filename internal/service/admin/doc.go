// Package admin implements the out-of-band provisioning commands of the
// server binary: creating user accounts and registering sensors. Secrets are
// stored as bcrypt hashes; the directory still accepts legacy plaintext rows.
package admin
