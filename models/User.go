package models

import (
	"errors"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"Wildography/security"

	"github.com/badoux/checkmail"
	googleuuid "github.com/google/uuid"
	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound   = errors.New("User not found")
	ErrDuplicateEmail = errors.New("User already exists")
)

type User struct {
	ID             uint      `gorm:"primary_key;autoIncrement" json:"-"`
	PublicID       string    `gorm:"type:uuid;uniqueIndex;column:public_id" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Username       *string   `gorm:"size:255;uniqueIndex" json:"username"`
	Email          string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password       string    `gorm:"size:255;not null" json:"-"`
	AvatarPath     string    `gorm:"size:255" json:"avatar_path"`
	Troop          string    `gorm:"size:100" json:"troop"`
	FollowersCount int64     `gorm:"not null;default:0" json:"followers_count"`
	FollowingCount int64     `gorm:"not null;default:0" json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u *User) HashPassword() error {
	if u.Password == "" || security.IsHashed(u.Password) {
		return nil
	}
	hashedPassword, err := security.Hash(u.Password)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(u.PublicID) == "" {
		u.PublicID = uuid.NewV4().String()
	}
	return u.HashPassword()
}

// Handle returns the user's handle, or their display name when no handle is set.
func (u *User) Handle() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	return u.Name
}

func (u *User) Prepare() {
	u.Name = html.EscapeString(strings.TrimSpace(u.Name))
	u.Email = html.EscapeString(strings.ToLower(strings.TrimSpace(u.Email)))
	u.Troop = html.EscapeString(strings.TrimSpace(u.Troop))
	u.AvatarPath = strings.TrimSpace(u.AvatarPath)
	if u.Username != nil {
		handle := html.EscapeString(strings.ToLower(strings.TrimSpace(*u.Username)))
		if handle == "" {
			u.Username = nil
		} else {
			u.Username = &handle
		}
	}
}

func (u *User) AfterFind(tx *gorm.DB) (err error) {
	if u.AvatarPath == "" || strings.HasPrefix(u.AvatarPath, "http") {
		return nil
	}
	bucket := os.Getenv("S3_BUCKET")
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	key := u.AvatarPath
	if !strings.HasPrefix(key, AvatarPrefix) {
		key = AvatarPrefix + key
	}
	u.AvatarPath = "https://" + bucket + ".s3." + region + ".amazonaws.com/" + key
	return nil
}

// AvatarPrefix is the S3 folder holding profile pictures.
const AvatarPrefix = "UserProfilePics/"

const handleRules = "Username may not contain spaces, @ or /, be only digits or look like an id"

// validHandle keeps handles distinct from the numeric and public ids that
// share the /users/:id path segment.
func validHandle(handle string) bool {
	if strings.ContainsAny(handle, " @/") {
		return false
	}
	if strings.Trim(handle, "0123456789") == "" {
		return false
	}
	if _, err := googleuuid.Parse(handle); err == nil {
		return false
	}
	return true
}

func (u *User) Validate(action string) map[string]string {
	var errorMessages = make(map[string]string)

	switch strings.ToLower(action) {
	case "update":
		if u.Name == "" {
			errorMessages["Required_name"] = "Required Name"
		}
		if u.Username != nil && !validHandle(*u.Username) {
			errorMessages["Invalid_username"] = handleRules
		}
	case "login":
		if u.Password == "" {
			errorMessages["Required_password"] = "Required Password"
		}
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		}
		if u.Email != "" {
			if err := checkmail.ValidateFormat(u.Email); err != nil {
				errorMessages["Invalid_email"] = "Invalid Email"
			}
		}
	case "forgotpassword":
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		}
		if u.Email != "" {
			if err := checkmail.ValidateFormat(u.Email); err != nil {
				errorMessages["Invalid_email"] = "Invalid Email"
			}
		}
	default:
		if u.Name == "" {
			errorMessages["Required_name"] = "Required Name"
		}
		if u.Username != nil && !validHandle(*u.Username) {
			errorMessages["Invalid_username"] = handleRules
		}
		if u.Password == "" {
			errorMessages["Required_password"] = "Required Password"
		}
		if len(u.Password) < 6 {
			errorMessages["Invalid_password"] = "Password should be at least 6 characters"
		}
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		}
		if u.Email != "" {
			if err := checkmail.ValidateFormat(u.Email); err != nil {
				errorMessages["Invalid_email"] = "Invalid Email"
			}
		}
	}
	return errorMessages
}

// SaveUser inserts the user. A second signup with the same email fails with
// ErrDuplicateEmail and writes nothing.
func (u *User) SaveUser(db *gorm.DB) (*User, error) {
	var count int64
	if err := db.Model(&User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}
	if u.Username != nil {
		if err := db.Model(&User{}).Where("username = ?", *u.Username).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fmt.Errorf("username taken: %w", gorm.ErrDuplicatedKey)
		}
	}
	if err := db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateUserError(db, u.Email)
		}
		return nil, err
	}
	return u, nil
}

// duplicateUserError tells which unique index a concurrent signup hit.
func duplicateUserError(db *gorm.DB, email string) error {
	var count int64
	if err := db.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateEmail
	}
	return fmt.Errorf("username taken: %w", gorm.ErrDuplicatedKey)
}

func (u *User) FindAllUsers(db *gorm.DB) (*[]User, error) {
	var users []User
	err := db.Order("created_at desc, id desc").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return &users, nil
}

func (u *User) FindUserByID(db *gorm.DB, uid uint) (*User, error) {
	var user User
	err := db.Where("id = ?", uid).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByEmail is the only lookup that returns the credential hash, for login.
func (u *User) FindUserByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile writes handle, display name, troop and avatar.
func (u *User) UpdateProfile(db *gorm.DB, uid uint) (*User, error) {
	err := db.Model(&User{}).Where("id = ?", uid).Updates(map[string]interface{}{
		"name":        u.Name,
		"username":    u.Username,
		"troop":       u.Troop,
		"avatar_path": u.AvatarPath,
		"updated_at":  time.Now(),
	}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("username taken: %w", err)
		}
		return nil, err
	}
	return u.FindUserByID(db, uid)
}

func (u *User) UpdateAUserAvatar(db *gorm.DB, uid uint) (*User, error) {
	err := db.Model(&User{}).Where("id = ?", uid).Updates(map[string]interface{}{
		"avatar_path": u.AvatarPath,
		"updated_at":  time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}
	return u.FindUserByID(db, uid)
}

func (u *User) UpdatePassword(db *gorm.DB) error {
	if err := u.HashPassword(); err != nil {
		return err
	}
	return db.Model(&User{}).Where("email = ?", u.Email).Updates(map[string]interface{}{
		"password":   u.Password,
		"updated_at": time.Now(),
	}).Error
}
