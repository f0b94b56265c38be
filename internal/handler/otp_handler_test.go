package handler

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"storefront-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGenerateOTP(t *testing.T) {
	codes := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		code := generateOTP(otpLength)
		require.Len(t, code, otpLength)
		for _, ch := range code {
			assert.Contains(t, otpAlphabet, string(ch))
		}
		codes[code] = struct{}{}
	}
	// With a 62^6 space, repeated draws collapsing to one value would
	// mean the randomness source is broken
	assert.Greater(t, len(codes), 1)
}

func withMailer(t *testing.T, m *fakeMailer) {
	t.Helper()
	SetMailer(m)
	t.Cleanup(func() { SetMailer(nil) })
}

func tempUserCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.TempUser{}).Count(&count).Error)
	return count
}

func TestSendOTPUnknownEmail(t *testing.T) {
	db := setupTestDB(t)
	mail := &fakeMailer{}
	withMailer(t, mail)

	c, rec := newFormContext(t, "/api/auth/send-otp", url.Values{"email": {"nobody@example.com"}})
	require.NoError(t, SendOTP(c))

	body := decodeBody(t, rec)
	assert.Equal(t, "Email does not exists", body["error"])
	assert.Empty(t, mail.sent)
	assert.Zero(t, tempUserCount(t, db))
}

func TestSendOTPNonSuperuser(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "seller@example.com", false)
	mail := &fakeMailer{}
	withMailer(t, mail)

	c, rec := newFormContext(t, "/api/auth/send-otp", url.Values{"email": {"seller@example.com"}})
	require.NoError(t, SendOTP(c))

	body := decodeBody(t, rec)
	assert.Equal(t, "Email does not exists", body["error"])
	assert.Zero(t, tempUserCount(t, db))
}

func TestSendOTPSuccess(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "admin@example.com", true)
	mail := &fakeMailer{}
	withMailer(t, mail)

	c, rec := newFormContext(t, "/api/auth/send-otp", url.Values{"email": {"admin@example.com"}})
	require.NoError(t, SendOTP(c))

	body := decodeBody(t, rec)
	assert.Equal(t, "OTP has been sent successfully", body["success"])

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "admin@example.com", mail.sent[0].to)

	var records []model.TempUser
	require.NoError(t, db.Find(&records).Error)
	require.Len(t, records, 1, "exactly one passcode record per successful send")
	assert.Equal(t, "admin@example.com", records[0].Email)
	assert.Len(t, records[0].OTP, otpLength)
	assert.Contains(t, mail.sent[0].body, records[0].OTP, "the mailed code is the recorded code")
}

func TestSendOTPMailFailure(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "admin@example.com", true)
	mail := &fakeMailer{err: errors.New("relay refused connection")}
	withMailer(t, mail)

	c, rec := newFormContext(t, "/api/auth/send-otp", url.Values{"email": {"admin@example.com"}})
	require.NoError(t, SendOTP(c), "mail failure degrades to an error payload, never a request failure")

	body := decodeBody(t, rec)
	assert.Equal(t, "OTP not sent, Try again.", body["error"])
	assert.Zero(t, tempUserCount(t, db), "no orphaned code is recorded when the send fails")
}

func TestSendOTPRepeatedRequests(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "admin@example.com", true)
	mail := &fakeMailer{}
	withMailer(t, mail)

	for i := 0; i < 3; i++ {
		c, _ := newFormContext(t, "/api/auth/send-otp", url.Values{"email": {"admin@example.com"}})
		require.NoError(t, SendOTP(c))
	}

	// Each request records a fresh code; prior codes stay outstanding
	assert.Equal(t, int64(3), tempUserCount(t, db))
}

func TestVerifyOTP(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "admin@example.com", true)
	require.NoError(t, db.Create(&model.TempUser{Email: user.Email, OTP: "Abc123"}).Error)
	require.NoError(t, db.Create(&model.TempUser{Email: user.Email, OTP: "Xyz789"}).Error)

	t.Run("wrong code", func(t *testing.T) {
		c, rec := newFormContext(t, "/api/auth/verify-otp", url.Values{
			"email": {user.Email},
			"otp":   {"nope00"},
		})
		require.NoError(t, VerifyOTP(c))
		body := decodeBody(t, rec)
		assert.Equal(t, "Invalid OTP", body["error"])
		assert.Equal(t, int64(2), tempUserCount(t, db))
	})

	t.Run("matching code consumes all records", func(t *testing.T) {
		c, rec := newFormContext(t, "/api/auth/verify-otp", url.Values{
			"email": {user.Email},
			"otp":   {"Xyz789"},
		})
		require.NoError(t, VerifyOTP(c))
		body := decodeBody(t, rec)
		assert.Contains(t, body, "success")
		assert.Zero(t, tempUserCount(t, db))

		var verified model.User
		require.NoError(t, db.First(&verified, user.ID).Error)
		assert.True(t, verified.Verified)
	})
}

func TestOTPAlphabetCaseSensitive(t *testing.T) {
	assert.True(t, strings.Contains(otpAlphabet, "a"))
	assert.True(t, strings.Contains(otpAlphabet, "A"))
	assert.True(t, strings.Contains(otpAlphabet, "0"))
	assert.Len(t, otpAlphabet, 62)
}
