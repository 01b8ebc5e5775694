package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOTP generates a 6-digit OTP
func GenerateOTP() string {
	rng := mrand.New(mrand.NewSource(time.Now().UnixNano()))
	otp := ""
	for i := 0; i < 6; i++ {
		otp += fmt.Sprintf("%d", rng.Intn(10))
	}
	return otp
}

// GenerateInviteToken returns a 32-byte hex token for course invitations
func GenerateInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// GenerateCertificateNumber returns a unique human-readable certificate number
func GenerateCertificateNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("LH-%d-%s", time.Now().Year(), id[:12])
}

// GenerateReceipt returns a unique receipt id for payment orders
func GenerateReceipt() string {
	return "rcpt_" + uuid.NewString()
}
