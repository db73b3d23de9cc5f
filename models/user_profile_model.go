package models

type UserProfileModel struct {
	UserId      string `bson:"_id"`
	Email       string `bson:"email"`
	DisplayName string `bson:"displayName"`
	CreatedOn   int64  `bson:"createdOn"`
}

func (m *UserProfileModel) Id() string {
	return m.UserId
}
