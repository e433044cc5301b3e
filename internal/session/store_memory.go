package session

import "time"

// revokeMemory 메모리 백엔드 폐기 기록
func (s *Store) revokeMemory(tokenID string, ttl time.Duration) {
	now := s.now()
	s.mu.Lock()
	s.pruneExpiredLocked(now)
	s.revoked[tokenID] = now.Add(ttl)
	s.mu.Unlock()
}

// isRevokedMemory 메모리 백엔드 폐기 여부
func (s *Store) isRevokedMemory(tokenID string) bool {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.revoked[tokenID]
	if !ok {
		return false
	}
	if !now.Before(expiresAt) {
		delete(s.revoked, tokenID)
		return false
	}
	return true
}

// revokedCountMemory 메모리 백엔드 폐기 수
func (s *Store) revokedCountMemory() int {
	now := s.now()
	s.mu.Lock()
	s.pruneExpiredLocked(now)
	count := len(s.revoked)
	s.mu.Unlock()
	return count
}

// pruneExpiredLocked 만료된 기록 정리 (락 보유 상태에서 호출)
func (s *Store) pruneExpiredLocked(now time.Time) {
	for tokenID, expiresAt := range s.revoked {
		if now.Before(expiresAt) {
			continue
		}
		delete(s.revoked, tokenID)
	}
}
