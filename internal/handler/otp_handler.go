package handler

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"storefront-service/internal/model"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"
	"storefront-service/pkg/mailer"
	"storefront-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	otpLength   = 6
	otpAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var otpMailer mailer.Mailer

// SetMailer wires the outbound mail transport. Called once from main;
// tests inject a fake.
func SetMailer(m mailer.Mailer) {
	otpMailer = m
}

// generateOTP returns a passcode drawn uniformly with replacement from
// the case-sensitive alphanumeric alphabet.
func generateOTP(length int) string {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(otpAlphabet))))
		if err != nil {
			panic("otp: randomness source failed: " + err.Error())
		}
		code[i] = otpAlphabet[n.Int64()]
	}
	return string(code)
}

// SendOTP issues a one-time passcode for a privileged account. The code
// is emailed first; the record is persisted only after a successful
// send, so a mail failure leaves no orphaned unusable code behind. Mail
// failures are logged and reported as a JSON error, never a crash.
func SendOTP(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOTPRequest()

	email := c.FormValue("email")

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	result := database.GetDB().Where("email = ? AND superuser = ?", email, true).First(&user)
	if result.Error != nil {
		log.Warn("OTP requested for unknown or non-privileged email",
			zap.String("email", email))
		return c.JSON(http.StatusOK, echo.Map{"error": "Email does not exists"})
	}

	otp := generateOTP(otpLength)

	if otpMailer == nil {
		log.Error("Mail transport not configured")
		prometheus.RecordOTPSendFailure()
		return c.JSON(http.StatusOK, echo.Map{"error": "OTP not sent, Try again."})
	}

	body := fmt.Sprintf("Dear user,\n Your One-Time Password (OTP) for account verification is: %s\nDo not share this OTP with anyone for security reasons.", otp)
	if err := otpMailer.Send(email, "Email Verification", body); err != nil {
		log.Error("Failed to send OTP email",
			zap.String("email", email),
			zap.Error(err))
		prometheus.RecordOTPSendFailure()
		return c.JSON(http.StatusOK, echo.Map{"error": "OTP not sent, Try again."})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&model.TempUser{Email: email, OTP: otp}); result.Error != nil {
		log.Error("Failed to record OTP",
			zap.String("email", email),
			zap.Error(result.Error))
		return c.JSON(http.StatusOK, echo.Map{"error": "OTP not sent, Try again."})
	}

	log.Info("OTP sent", zap.String("email", email))
	return c.JSON(http.StatusOK, echo.Map{"success": "OTP has been sent successfully"})
}

// VerifyOTP checks a submitted passcode against the stored records for
// the email. A match consumes every stored code for that email and marks
// the account verified.
func VerifyOTP(c echo.Context) error {
	log := logger.FromContext(c)

	email := c.FormValue("email")
	otp := c.FormValue("otp")
	if email == "" || otp == "" {
		return c.JSON(http.StatusOK, echo.Map{"error": "email and otp are required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var record model.TempUser
	result := database.GetDB().Where("email = ? AND otp = ?", email, otp).First(&record)
	if result.Error != nil {
		log.Warn("OTP verification failed", zap.String("email", email))
		return c.JSON(http.StatusOK, echo.Map{"error": "Invalid OTP"})
	}

	if err := database.GetDB().Where("email = ?", email).Delete(&model.TempUser{}).Error; err != nil {
		log.Error("Failed to consume OTP records",
			zap.String("email", email),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verification failed"})
	}

	if err := database.GetDB().Model(&model.User{}).
		Where("email = ?", email).
		Update("verified", true).Error; err != nil {
		log.Error("Failed to mark user verified",
			zap.String("email", email),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verification failed"})
	}

	log.Info("OTP verified", zap.String("email", email))
	return c.JSON(http.StatusOK, echo.Map{"success": "Email verified successfully"})
}
