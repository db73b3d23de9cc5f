package models

type SocialStatsModel struct {
	UserId   string `json:"userId" bson:"_id"`
	Posts    int32  `json:"posts" bson:"posts"`
	Comments int32  `json:"comments" bson:"comments"`
}

func (p *SocialStatsModel) Id() string {
	return GetSocialStatsId(p.UserId)
}

// returns the social stats id for the given user
func GetSocialStatsId(userId string) string {
	return userId
}
