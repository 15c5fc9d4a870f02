package commands

const (
	_etc = "/usr/local/etc/com.github.maturity-assessment"
	_var = "/usr/local/var/com.github.maturity-assessment"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
	DEFAULT_CONFIG      = _var + "/maturity.yaml"
)
