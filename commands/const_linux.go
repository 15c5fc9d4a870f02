package commands

const (
	_etc = "/usr/local/etc/maturity-assessment"
	_var = "/usr/local/var/maturity-assessment"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
	DEFAULT_CONFIG      = _var + "/maturity.yaml"
)
