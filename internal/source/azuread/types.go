package azuread

// Graph API response shapes. Decoding happens at the client boundary;
// nothing downstream sees raw JSON.

const (
	odataTypeUser  = "#microsoft.graph.user"
	odataTypeGroup = "#microsoft.graph.group"

	principalTypeUser  = "User"
	principalTypeGroup = "Group"
)

type application struct {
	AppID          string   `json:"appId"`
	DisplayName    string   `json:"displayName"`
	SignInAudience string   `json:"signInAudience"`
	IdentifierURIs []string `json:"identifierUris"`
	Tags           []string `json:"tags"`
}

type servicePrincipal struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Tags        []string `json:"tags"`
	LoginURL    string   `json:"loginUrl"`
	Homepage    string   `json:"homepage"`
}

// serviceURL returns the canonical URL of the application behind this
// service principal.
func (sp *servicePrincipal) serviceURL() string {
	if sp.LoginURL != "" {
		return sp.LoginURL
	}
	return sp.Homepage
}

type appRoleAssignment struct {
	PrincipalID          string `json:"principalId"`
	PrincipalDisplayName string `json:"principalDisplayName"`
	PrincipalType        string `json:"principalType"`
}

type graphUser struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// email returns the reconciliation identity of the user. The user principal
// name is primary; some directories leave it unroutable, in which case mail
// is the better key.
func (u *graphUser) email() string {
	if u.UserPrincipalName != "" {
		return u.UserPrincipalName
	}
	return u.Mail
}

type graphGroup struct {
	ID              string `json:"id"`
	DisplayName     string `json:"displayName"`
	SecurityEnabled bool   `json:"securityEnabled"`
}

// directoryObject is a group member of any type; the @odata.type
// discriminator says whether the user fields are populated.
type directoryObject struct {
	ODataType         string `json:"@odata.type"`
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

func (o *directoryObject) user() graphUser {
	return graphUser{
		ID:                o.ID,
		DisplayName:       o.DisplayName,
		Mail:              o.Mail,
		UserPrincipalName: o.UserPrincipalName,
	}
}
