// internals/features/users/auth/service/auth_service.go
package service

import (
	"errors"
	"log"
	"strings"

	"github.com/futurenda/google-auth-id-token-verifier"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"leanmaker_backend/internals/configs"
	"leanmaker_backend/internals/constants"
	authDTO "leanmaker_backend/internals/features/users/auth/dto"
	companyModel "leanmaker_backend/internals/features/users/companies/model"
	studentModel "leanmaker_backend/internals/features/users/students/model"
	teacherModel "leanmaker_backend/internals/features/users/teachers/model"
	userModel "leanmaker_backend/internals/features/users/user/model"
	helper "leanmaker_backend/internals/helpers"
)

var validate = validator.New()

const (
	forbiddenEmailDomain = "@inacap.cl"
	studentEmailDomain   = "@inacapmail.cl"
)

// ========================== LOGIN ==========================
// POST /api/token/
func Login(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := findUserByAnyEmail(db, email)
	if err != nil {
		// same message for unknown email and wrong password
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	if err := user.CheckPassword(req.Password); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Your account has been disabled")
	}

	access, refresh, err := IssueTokenPair(db, user, c.Get("User-Agent"), c.IP())
	if err != nil {
		log.Println("[ERROR] issue token pair:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not issue tokens")
	}

	return helper.JsonOK(c, "login ok", authDTO.TokenPairResponse{
		Access:  access,
		Refresh: refresh,
		User:    authDTO.ToUserResponse(user),
	})
}

// findUserByAnyEmail matches users.email first, then companies.company_email.
func findUserByAnyEmail(db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	err := db.First(&user, "email = ?", email).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var company companyModel.CompanyProfileModel
	if err := db.First(&company, "company_email = ?", email).Error; err != nil {
		return nil, err
	}
	if err := db.First(&user, "id = ?", company.UserID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ========================== REGISTER ==========================
// POST /api/auth/register/
// Creates the user plus its role profile inside one transaction.
func Register(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if strings.HasSuffix(email, forbiddenEmailDomain) {
		return helper.JsonError(c, fiber.StatusBadRequest,
			"Emails on "+forbiddenEmailDomain+" are not accepted; use your "+studentEmailDomain+" address")
	}
	if req.Role == constants.RoleStudent && !strings.HasSuffix(email, studentEmailDomain) {
		return helper.JsonError(c, fiber.StatusBadRequest,
			"Student accounts must use a "+studentEmailDomain+" address")
	}

	if fieldErrs := validateRoleFields(&req); len(fieldErrs) > 0 {
		return helper.JsonValidationError(c, fieldErrs)
	}

	var created userModel.UserModel
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&userModel.UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errEmailTaken
		}

		user := userModel.UserModel{
			Email:     email,
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
			Role:      req.Role,
			Phone:     req.Phone,
			IsActive:  true,
		}
		if err := user.SetPassword(req.Password); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		switch req.Role {
		case constants.RoleStudent:
			profile := studentModel.StudentProfileModel{
				UserID:         user.ID,
				Career:         strings.TrimSpace(req.Career),
				University:     strings.TrimSpace(req.University),
				EducationLevel: strings.TrimSpace(req.EducationLevel),
				Semester:       req.Semester,
				GraduationYear: req.GraduationYear,
				Status:         studentModel.StatusPending,
				APILevel:       1,
				Skills:         helper.StringsToJSON(nil),
				Languages:      helper.StringsToJSON(nil),
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
		case constants.RoleCompany:
			rut := helper.NormalizeRUT(req.RUT)
			companyEmail := strings.ToLower(strings.TrimSpace(req.CompanyEmail))

			var n int64
			if err := tx.Model(&companyModel.CompanyProfileModel{}).
				Where("rut = ? OR company_email = ?", rut, companyEmail).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return errCompanyTaken
			}

			profile := companyModel.CompanyProfileModel{
				UserID:       user.ID,
				CompanyName:  strings.TrimSpace(req.CompanyName),
				RUT:          rut,
				Industry:     strings.TrimSpace(req.Industry),
				CompanyEmail: companyEmail,
				Status:       companyModel.StatusActive,
				Technologies: helper.StringsToJSON(nil),
				Benefits:     helper.StringsToJSON(nil),
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
		case constants.RoleTeacher:
			profile := teacherModel.TeacherProfileModel{
				UserID:     user.ID,
				Department: strings.TrimSpace(req.Department),
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
		}

		created = user
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, errEmailTaken):
			return helper.JsonError(c, fiber.StatusConflict, "A user with this email already exists")
		case errors.Is(err, errCompanyTaken):
			return helper.JsonError(c, fiber.StatusConflict, "A company with this RUT or email already exists")
		default:
			log.Println("[ERROR] register:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Registration failed")
		}
	}

	return helper.JsonCreated(c, "registered", authDTO.ToUserResponse(&created))
}

var (
	errEmailTaken   = errors.New("email taken")
	errCompanyTaken = errors.New("company taken")
)

func validateRoleFields(req *authDTO.RegisterRequest) map[string][]string {
	errs := map[string][]string{}
	switch req.Role {
	case constants.RoleStudent:
		if strings.TrimSpace(req.Career) == "" {
			errs["career"] = append(errs["career"], "this field is required")
		}
		if strings.TrimSpace(req.University) == "" {
			errs["university"] = append(errs["university"], "this field is required")
		}
		if strings.TrimSpace(req.EducationLevel) == "" {
			errs["education_level"] = append(errs["education_level"], "this field is required")
		}
	case constants.RoleCompany:
		if strings.TrimSpace(req.CompanyName) == "" {
			errs["company_name"] = append(errs["company_name"], "this field is required")
		}
		if strings.TrimSpace(req.Industry) == "" {
			errs["industry"] = append(errs["industry"], "this field is required")
		}
		if strings.TrimSpace(req.CompanyEmail) == "" {
			errs["company_email"] = append(errs["company_email"], "this field is required")
		}
		if !helper.ValidateRUT(req.RUT) {
			errs["rut"] = append(errs["rut"], "invalid RUT")
		}
	}
	return errs
}

// ========================== GOOGLE LOGIN ==========================
// POST /api/auth/login-google/
// Verifies a Google ID token and signs in the matching active account.
// No account creation here.
func LoginGoogle(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(req.IDToken, []string{configs.GoogleClientID}); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid Google token")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(req.IDToken)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid Google token")
	}

	email := strings.ToLower(strings.TrimSpace(claimSet.Email))
	user, err := findUserByAnyEmail(db, email)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "No account for this Google identity")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Your account has been disabled")
	}

	access, refresh, err := IssueTokenPair(db, user, c.Get("User-Agent"), c.IP())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not issue tokens")
	}

	return helper.JsonOK(c, "login ok", authDTO.TokenPairResponse{
		Access:  access,
		Refresh: refresh,
		User:    authDTO.ToUserResponse(user),
	})
}

// ========================== REFRESH ==========================
// POST /api/token/refresh/
func RefreshToken(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	access, refresh, user, err := RotateRefreshToken(db, req.Refresh, c.Get("User-Agent"), c.IP())
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token invalid")
	}

	return helper.JsonOK(c, "token refreshed", authDTO.TokenPairResponse{
		Access:  access,
		Refresh: refresh,
		User:    authDTO.ToUserResponse(user),
	})
}

// ========================== VERIFY ==========================
// POST /api/token/verify/
func VerifyToken(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	subject, err := VerifyAccessToken(req.Token)
	if err != nil {
		return helper.JsonOK(c, "token invalid", fiber.Map{"valid": false})
	}

	var user userModel.UserModel
	if err := db.First(&user, "id = ?", subject.UserID).Error; err != nil || !user.IsActive {
		return helper.JsonOK(c, "token invalid", fiber.Map{"valid": false})
	}

	return helper.JsonOK(c, "token valid", fiber.Map{
		"valid": true,
		"user":  authDTO.ToUserResponse(&user),
	})
}

// ========================== LOGOUT ==========================
// POST /api/auth/logout/
// Blacklists the presented access token and revokes refresh tokens.
func Logout(db *gorm.DB, c *fiber.Ctx) error {
	raw := helper.GetRawAccessToken(c)
	if raw == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "No token provided")
	}

	subject, err := VerifyAccessToken(raw)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Token invalid")
	}

	if err := BlacklistAccessToken(db, raw, subject.ExpiresAt); err != nil {
		log.Println("[ERROR] blacklist on logout:", err)
	}
	if err := RevokeUserRefreshTokens(db, subject.UserID); err != nil {
		log.Println("[ERROR] revoke refresh on logout:", err)
	}

	return helper.JsonOK(c, "logged out", nil)
}
