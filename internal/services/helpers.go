package services

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/repositories"
)

// parseObjectID validates a 24-hex id from a path or payload.
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// actorTenantID resolves the caller's tenant id. Super admins carry none.
func actorTenantID(actor Actor) (primitive.ObjectID, error) {
	return parseObjectID(actor.TenantID)
}

// mapRepoErr converts a repository lookup failure into the matching
// service sentinel.
func mapRepoErr(err, notFound error) error {
	if repositories.IsNotFoundError(err) {
		return notFound
	}
	return err
}

func hexList(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}

// composeTeacherResponse merges an account and a teacher profile.
func composeTeacherResponse(user *models.User, teacher *models.Teacher) *TeacherResponse {
	return &TeacherResponse{
		ID:              teacher.ID.Hex(),
		UserID:          user.ID.Hex(),
		TenantID:        teacher.TenantID.Hex(),
		FullName:        user.FullName,
		Email:           user.Email,
		Role:            user.Role,
		Status:          user.Status,
		ProfileImageURL: user.ProfileImageURL,
		ContactNo:       user.ContactNo,
		Country:         user.Country,
		Qualifications:  teacher.Qualifications,
		Subjects:        teacher.Subjects,
		AssignedCourses: hexList(teacher.AssignedCourses),
		CreatedAt:       user.CreatedAt,
		LastLogin:       user.LastLogin,
	}
}

// composeStudentResponse merges an account and a student profile.
func composeStudentResponse(user *models.User, student *models.Student) *StudentResponse {
	return &StudentResponse{
		ID:               student.ID.Hex(),
		UserID:           user.ID.Hex(),
		TenantID:         student.TenantID.Hex(),
		FullName:         user.FullName,
		Email:            user.Email,
		Role:             user.Role,
		Status:           user.Status,
		ProfileImageURL:  user.ProfileImageURL,
		ContactNo:        user.ContactNo,
		Country:          user.Country,
		ClassName:        student.ClassName,
		RollNo:           student.RollNo,
		EnrolledCourses:  hexList(student.EnrolledCourses),
		CompletedCourses: hexList(student.CompletedCourses),
		CreatedAt:        user.CreatedAt,
		LastLogin:        user.LastLogin,
	}
}

// composeAdminResponse merges an account and an admin profile.
func composeAdminResponse(user *models.User, admin *models.Admin) *AdminResponse {
	return &AdminResponse{
		ID:              admin.ID.Hex(),
		UserID:          user.ID.Hex(),
		TenantID:        admin.TenantID.Hex(),
		FullName:        user.FullName,
		Email:           user.Email,
		Role:            user.Role,
		Status:          user.Status,
		ProfileImageURL: user.ProfileImageURL,
		ContactNo:       user.ContactNo,
		Country:         user.Country,
		CreatedAt:       user.CreatedAt,
		LastLogin:       user.LastLogin,
	}
}

// ensureEmailAvailable returns ErrEmailAlreadyExists when another account
// already uses the address.
func ensureEmailAvailable(err error) error {
	if err == nil {
		return ErrEmailAlreadyExists
	}
	if repositories.IsNotFoundError(err) {
		return nil
	}
	return err
}

// accountIsActive reports whether the user may authenticate.
func accountIsActive(user *models.User) bool {
	for _, status := range models.ActiveStatuses() {
		if user.Status == status {
			return true
		}
	}
	return false
}

var errNoProfile = errors.New("no role profile for user")
