package services

// SetPasswordComparer replaces the bcrypt comparison of s.
func SetPasswordComparer(s *AuthService, compare func(hash, password []byte) error) {
	s.comparePassword = compare
}
