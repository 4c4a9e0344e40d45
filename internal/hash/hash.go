package hash

import "golang.org/x/crypto/bcrypt"

// Cost is the bcrypt work factor used by HashPassword. It is set once at
// startup from BCRYPT_COST.
var Cost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	return HashPasswordCost(password, Cost)
}

// HashPasswordCost hashes with cost clamped to bcrypt's accepted range.
func HashPasswordCost(password string, cost int) (string, error) {
	cost = min(max(cost, bcrypt.MinCost), bcrypt.MaxCost)
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
